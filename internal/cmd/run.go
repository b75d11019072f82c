package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taurgis/mcpconform/internal/harness"
	"github.com/taurgis/mcpconform/internal/pattern"
	"github.com/taurgis/mcpconform/internal/validator"
	"github.com/taurgis/mcpconform/internal/value"
)

// suiteFile is the minimal on-disk shape `run` and `lint` share: a
// server-under-test definition plus an ordered list of request/expect
// pairs. A full declarative loader would widen this considerably
// (suite directories, includes, fixtures);
// this is the narrow slice that exercises the harness and validator.
type suiteFile struct {
	Description string         `json:"description"`
	Server      harness.Config `json:"server"`
	Tests       []suiteTest    `json:"tests"`
}

type suiteTest struct {
	Name    string     `json:"name"`
	Request requestDef `json:"request"`
	Expect  expectDef  `json:"expect"`
}

type requestDef struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

type expectDef struct {
	Response    json.RawMessage `json:"response"`
	Stderr      string          `json:"stderr"`
	Performance *performanceDef `json:"performance"`
}

type performanceDef struct {
	MaxDurationMS int64 `json:"maxDurationMs"`
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <suite.json>",
		Short: "Drive one suite through the harness and validator, printing pass/fail",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuiteCmd,
	}
}

func loadSuiteFile(path string) (*suiteFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %q: %w", path, err)
	}
	var suite suiteFile
	if err := json.Unmarshal(raw, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite %q: %w", path, err)
	}
	return &suite, nil
}

func runSuiteCmd(cmd *cobra.Command, args []string) error {
	suite, err := loadSuiteFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	debugLog.Printf("starting server for suite %q", suite.Description)
	sess, err := harness.Start(ctx, &suite.Server)
	if err != nil {
		return fmt.Errorf("starting server under test: %w", err)
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", suite.Description)

	passed, failed := 0, 0
	for _, test := range suite.Tests {
		ok, msg := runOneTest(ctx, sess, test)
		if ok {
			passed++
			fmt.Fprintf(out, "  PASS  %s\n", test.Name)
		} else {
			failed++
			fmt.Fprintf(out, "  FAIL  %s\n%s\n", test.Name, indent(msg, "        "))
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}

func runOneTest(ctx context.Context, sess *harness.Session, test suiteTest) (bool, string) {
	sess.ClearStderr()
	start := time.Now()
	result, rpcErr, err := sess.Call(ctx, test.Request.Method, test.Request.Params)
	elapsed := time.Since(start)
	if err != nil {
		return false, fmt.Sprintf("call failed: %v", err)
	}
	if rpcErr != nil {
		return false, fmt.Sprintf("server returned error: code=%d message=%s", rpcErr.Code, rpcErr.Message)
	}

	var failures []string

	if len(test.Expect.Response) > 0 {
		expected, parseErr := value.FromExpectedJSON(test.Expect.Response)
		if parseErr != nil {
			return false, fmt.Sprintf("expected response is not valid JSON: %v", parseErr)
		}
		res := validator.ValidateWithOptions(expected, result, "response", validator.Options{Now: time.Now})
		if !res.Passed {
			for _, e := range res.Errors {
				failures = append(failures, fmt.Sprintf("%s: %s", e.Path, e.Message))
			}
		}
	}

	if test.Expect.Stderr != "" {
		if ok, msg := checkStderr(test.Expect.Stderr, sess.Stderr()); !ok {
			failures = append(failures, msg)
		}
	}

	if test.Expect.Performance != nil && test.Expect.Performance.MaxDurationMS > 0 {
		if elapsed.Milliseconds() > test.Expect.Performance.MaxDurationMS {
			failures = append(failures, fmt.Sprintf("took %dms, exceeding budget of %dms", elapsed.Milliseconds(), test.Expect.Performance.MaxDurationMS))
		}
	}

	if len(failures) > 0 {
		return false, strings.Join(failures, "\n")
	}
	return true, ""
}

// checkStderr evaluates the two assertion forms allowed on the
// harness's stderr buffer: the literal sentinel toBeEmpty, or a
// match: pattern dispatched through the same registry the validator
// uses on ordinary fields.
func checkStderr(assertion, buffer string) (bool, string) {
	if assertion == "toBeEmpty" {
		if strings.TrimSpace(buffer) == "" {
			return true, ""
		}
		return false, fmt.Sprintf("expected empty stderr, got: %s", buffer)
	}
	if pattern.IsPatternToken(assertion) {
		tok := pattern.Parse(strings.TrimPrefix(assertion, pattern.PatternPrefix))
		ok, err := pattern.Match(tok, value.String(buffer), pattern.Options{})
		if err != nil {
			return false, fmt.Sprintf("stderr assertion %q malformed: %v", assertion, err)
		}
		if ok {
			return true, ""
		}
		return false, fmt.Sprintf("stderr did not satisfy %q; buffer: %s", assertion, buffer)
	}
	return false, fmt.Sprintf("unrecognized stderr assertion %q", assertion)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
