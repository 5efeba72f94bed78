package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "kc version %s\n", kcVersion())
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
