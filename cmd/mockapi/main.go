package main

import (
	"context"
	"fmt"
	"os"

	"github.com/talkincode/shopdesk/internal/cli"
)

func main() {
	if err := cli.ExecuteMock(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
