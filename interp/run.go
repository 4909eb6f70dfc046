package interp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
)

// Exporter drives a one-shot external interpolating solver: the whole
// request is written to its stdin and the process is run to completion,
// rather than kept open like smt.Z3's interactive session, since an
// interpolant export happens once per completed UNSAT run rather than
// once per BMC depth.
type Exporter struct {
	Binary string // defaults to "smtinterpol" if empty
}

// NewExporter builds an Exporter for the given binary (empty uses the
// default).
func NewExporter(binary string) *Exporter {
	return &Exporter{Binary: binary}
}

// Export runs b's sequent interpolation request and returns one
// interpolant term per cut point, in order. It returns an error if the
// tool reports sat (the run this bundle came from must itself have been
// unsat — interpolation is meaningless otherwise).
func (e *Exporter) Export(ctx context.Context, b *sts.Bundle) ([]ir.Term, error) {
	groups := GroupsFromBundle(b)
	if len(groups) < 2 {
		return nil, fmt.Errorf("interp: need at least two interpolation groups, got %d", len(groups))
	}
	script := RenderRequest(b, groups)

	binary := e.Binary
	if binary == "" {
		binary = "smtinterpol"
	}
	cmd := exec.CommandContext(ctx, binary)
	cmd.Stdin = strings.NewReader(script)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("interp: running %s: %w", binary, err)
	}

	return parseResponse(stdout.String(), len(groups)-1)
}

// parseResponse reads the check-sat verdict followed by want interpolant
// terms, one per get-interpolant request, tolerating terms that span
// multiple lines by tracking paren depth the way smt.Z3's model reader
// does.
func parseResponse(output string, want int) ([]ir.Term, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawVerdict := false
	var terms []ir.Term
	var pending strings.Builder
	depth := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !sawVerdict {
			switch line {
			case "unsat":
				sawVerdict = true
				continue
			case "sat", "unknown":
				return nil, fmt.Errorf("interp: tool reported %q, not unsat; no interpolant to export", line)
			default:
				continue
			}
		}

		pending.WriteString(line)
		pending.WriteByte(' ')
		depth += strings.Count(line, "(") - strings.Count(line, ")")
		if depth > 0 {
			continue
		}

		text := strings.TrimSpace(pending.String())
		pending.Reset()
		depth = 0
		if text == "" {
			continue
		}
		term, err := sts.ParseTerm(text)
		if err != nil {
			return nil, fmt.Errorf("interp: parsing interpolant %d: %w", len(terms), err)
		}
		terms = append(terms, term)
		if len(terms) == want {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("interp: reading tool output: %w", err)
	}
	if !sawVerdict {
		return nil, fmt.Errorf("interp: tool produced no check-sat verdict")
	}
	if len(terms) != want {
		return nil, fmt.Errorf("interp: expected %d interpolants, got %d", want, len(terms))
	}
	return terms, nil
}
