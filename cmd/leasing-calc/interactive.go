package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/leasing"
)

// promptGracePeriods asks for the grace of every period but the last one.
// An empty answer keeps the current value, which defaults to "no". Invalid
// answers are asked again.
func promptGracePeriods(in io.Reader, out io.Writer, periodCount int, current []string) ([]string, error) {
	scanner := bufio.NewScanner(in)
	grace := make([]string, 0, periodCount-1)

	for k := 1; k < periodCount; k++ {
		fallback := leasing.GraceNone.String()
		if k-1 < len(current) && strings.TrimSpace(current[k-1]) != "" {
			fallback = current[k-1]
		}

		for {
			fmt.Fprintf(out, "Period %d grace (no, partial, total) [%s]: ", k, fallback)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("failed to read grace for period %d: %w", k, err)
				}
				return nil, fmt.Errorf("input ended before period %d", k)
			}

			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				answer = fallback
			}
			parsed, err := leasing.ParseGracePeriod(answer)
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			grace = append(grace, parsed.String())
			break
		}
	}
	fmt.Fprintf(out, "Period %d has no grace.\n", periodCount)

	return grace, nil
}
