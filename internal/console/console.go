package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/internal/listing"
	"go.uber.org/zap"
)

// Screen is a list page that can be driven from text commands
type Screen interface {
	Name() string
	Render(w io.Writer) error
	Chips() []listing.Chip
	Controls() listing.Controls
	Settle(ctx context.Context) error
}

const help = `commands:
  /text       search by name (debounced)
  c <id|all>  filter by category
  b <id|all>  filter by brand
  a <all|true|false>  filter by active flag
  n, p        next / previous page
  g <page>    go to page
  r           refresh
  x <chip>    remove a filter chip (category, brand, active or its number)
  q           quit
`

// Run reads commands from in until q or EOF, re-rendering s after every settled change
func Run(ctx context.Context, s Screen, in io.Reader, out io.Writer) error {
	if err := redraw(ctx, s, out); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprintf(out, "%s> ", s.Name()); err != nil {
			return errors.Wrap(err, "write prompt")
		}
		if !sc.Scan() {
			fmt.Fprintln(out)
			return errors.Wrap(sc.Err(), "read command")
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		quit, err := Exec(s, line)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			if errors.Is(err, errHelp) {
				fmt.Fprint(out, help)
			}
			continue
		}
		if err := redraw(ctx, s, out); err != nil {
			return err
		}
	}
}

func redraw(ctx context.Context, s Screen, out io.Writer) error {
	if err := s.Settle(ctx); err != nil {
		return errors.Wrap(err, "wait for list")
	}
	return s.Render(out)
}

var errHelp = errors.New("unknown command")

// Exec applies one command line. It reports true for quit.
func Exec(s Screen, line string) (bool, error) {
	ctl := s.Controls()
	if strings.HasPrefix(line, "/") {
		ctl.SetSearch(strings.TrimPrefix(line, "/"))
		return false, nil
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	zap.L().Debug("console command", zap.String("namespace", "console"), zap.String("screen", s.Name()), zap.String("cmd", cmd))
	switch cmd {
	case "q":
		return true, nil
	case "c":
		v, err := idOrAll(arg)
		if err != nil {
			return false, err
		}
		ctl.SetCategory(v)
	case "b":
		v, err := idOrAll(arg)
		if err != nil {
			return false, err
		}
		ctl.SetBrand(v)
	case "a":
		switch arg {
		case domain.All, "true", "false":
			ctl.SetActive(arg)
		default:
			return false, errors.New("a takes all, true or false")
		}
	case "n":
		ctl.Next()
	case "p":
		ctl.Prev()
	case "g":
		n, err := cast.ToIntE(arg)
		if err != nil || n < 1 {
			return false, errors.Errorf("bad page %q", arg)
		}
		ctl.SetPage(n)
	case "r":
		ctl.Refresh()
	case "x":
		key, err := chipKey(s.Chips(), arg)
		if err != nil {
			return false, err
		}
		ctl.RemoveChip(key)
	default:
		return false, errors.Wrap(errHelp, cmd)
	}
	return false, nil
}

func idOrAll(arg string) (string, error) {
	if arg == "" || arg == domain.All {
		return domain.All, nil
	}
	if n, err := cast.ToInt64E(arg); err != nil || n <= 0 {
		return "", errors.Errorf("bad id %q", arg)
	}
	return arg, nil
}

// chipKey resolves a chip by key name or 1-based position
func chipKey(chips []listing.Chip, arg string) (listing.ChipKey, error) {
	if n, err := cast.ToIntE(arg); err == nil {
		if n < 1 || n > len(chips) {
			return "", errors.Errorf("no chip %d", n)
		}
		return chips[n-1].Key, nil
	}
	for _, c := range chips {
		if string(c.Key) == arg {
			return c.Key, nil
		}
	}
	return "", errors.Errorf("no %q chip", arg)
}
