package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sales-api/internal/cart"
	"github.com/noah-isme/sales-api/internal/common"
)

// quote prices a cart request read from a file argument or stdin and prints the response.
// Exit code 0 = priced, 1 = request rejected, 2 = other error.
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	in := stdin
	switch len(args) {
	case 0:
	case 1:
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintf(stderr, "quote: %v\n", err)
				return 2
			}
			defer f.Close()
			in = f
		}
	default:
		fmt.Fprintln(stderr, "usage: quote [request.json|-]")
		return 2
	}

	req, err := cart.DecodeCalculateRequest(in)
	if err != nil {
		return reject(stderr, err)
	}
	svc := &cart.Service{Logger: zerolog.Nop()}
	quote, err := svc.Calculate(context.Background(), req)
	if err != nil {
		return reject(stderr, err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cart.NewCartTotalResponse(quote.CartTotal)); err != nil {
		fmt.Fprintf(stderr, "quote: write response: %v\n", err)
		return 2
	}
	return 0
}

func reject(w io.Writer, err error) int {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "quote: %v\n", err)
		return 2
	}
	fmt.Fprintf(w, "quote: %s\n", appErr.Message)
	fields := make([]string, 0, len(appErr.Fields))
	for field := range appErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", field, appErr.Fields[field])
	}
	return 1
}
