// Package relay implements the interactive prompt relay CLI: it builds a
// prompt from a template, streams the model response, and dispatches the
// model's parsed JSON instruction as an HTTP call against the survey API.
package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
	"github.com/campuspulse/survey-engine/pkg/config"
	"github.com/campuspulse/survey-engine/pkg/llm"
	"github.com/campuspulse/survey-engine/pkg/prompts"
)

const (
	optionExit        = "exit"
	optionFile        = "file"
	optionEnterPrompt = "enter prompt"
)

// knownEndpoints are the survey API paths a model instruction may dispatch
// to. Anything else is rejected: the model's output is untrusted input.
var knownEndpoints = map[string]struct{}{
	"/students/import":                          {},
	"/students/fetch_by_gender_and_level":       {},
	"/students/fetch_daily_use_for_country":     {},
	"/students/fetch_conflicts_over_threshold":  {},
	"/students/fetch_students_by_affected_flag": {},
	"/students/fetch_student_by_country_and_mental_health_threshold": {},
}

// DispatchInstruction is the structured output the model is asked to produce:
// which API endpoint to call and with what JSON parameters.
type DispatchInstruction struct {
	Endpoint string         `json:"endpoint"`
	URL      string         `json:"url,omitempty"`
	Params   map[string]any `json:"params"`
}

// Relay drives the interactive loop. Input and output are injected so the
// loop can run against buffers in tests.
type Relay struct {
	cfg        *config.RelayConfig
	client     llm.ChatClient
	httpClient *http.Client
	in         *bufio.Scanner
	out        io.Writer
	logger     *zap.Logger
}

// New creates a new Relay with the given dependencies.
func New(cfg *config.RelayConfig, client llm.ChatClient, httpClient *http.Client, in io.Reader, out io.Writer, logger *zap.Logger) *Relay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Relay{
		cfg:        cfg,
		client:     client,
		httpClient: httpClient,
		in:         bufio.NewScanner(in),
		out:        out,
		logger:     logger.Named("relay"),
	}
}

// Run executes the relay loop until the user selects "exit", input ends, or
// the context is cancelled. Malformed model output and missing prompt files
// are logged and the loop continues.
func (r *Relay) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		template, err := r.selectOption(r.cfg.Templates)
		if err != nil {
			return err
		}
		if template == optionExit {
			return nil
		}

		prompt, err := r.readPrompt()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			r.report(err)
			continue
		}

		rendered, err := prompts.Render(r.cfg.TemplatesDir, template, map[string]string{
			"prompt": prompt,
		})
		if err != nil {
			r.report(err)
			continue
		}

		response, err := r.client.Stream(ctx, rendered, r.out)
		fmt.Fprintln(r.out)
		if err != nil {
			r.report(err)
			continue
		}

		instruction, err := ParseDispatch(response)
		if err != nil {
			r.report(err)
			continue
		}

		target, err := r.ResolveDispatchURL(instruction)
		if err != nil {
			r.report(err)
			continue
		}

		if err := r.dispatch(ctx, target, instruction.Params); err != nil {
			r.report(err)
			continue
		}
	}
}

// readPrompt asks for the prompt source and reads the prompt accordingly.
func (r *Relay) readPrompt() (string, error) {
	option, err := r.selectOption(r.cfg.PromptOptions)
	if err != nil {
		return "", err
	}

	switch option {
	case optionFile:
		fmt.Fprintln(r.out, "Enter the file name without file ending (e.g. example):")
		name, err := r.readLine()
		if err != nil {
			return "", err
		}
		return r.readPromptFile(name)
	default:
		fmt.Fprintln(r.out, "Enter your prompt:")
		return r.readLine()
	}
}

// readPromptFile loads <PromptsDir>/<name>.txt.
func (r *Relay) readPromptFile(name string) (string, error) {
	path := filepath.Join(r.cfg.PromptsDir, name+".txt")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrPromptFileNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return string(data), nil
}

// selectOption prints a numbered menu (the first entry is the caption) and
// reads the selection, accepting either the number or the exact option text.
func (r *Relay) selectOption(options []string) (string, error) {
	caption := options[0]
	items := options[1:]

	for {
		color.New(color.FgCyan, color.Bold).Fprintln(r.out, caption)
		for i, item := range items {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, item)
		}

		line, err := r.readLine()
		if err != nil {
			return "", err
		}

		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(items) {
			return items[n-1], nil
		}
		for _, item := range items {
			if strings.EqualFold(line, item) {
				return item, nil
			}
		}

		color.New(color.FgYellow).Fprintf(r.out, "Invalid selection: %q\n", line)
	}
}

func (r *Relay) readLine() (string, error) {
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

// ParseDispatch decodes the model's accumulated output into a dispatch
// instruction. Code fences and surrounding prose are tolerated.
func ParseDispatch(response string) (*DispatchInstruction, error) {
	instruction, err := llm.ParseJSONResponse[DispatchInstruction](response)
	if err != nil {
		return nil, err
	}
	if instruction.Endpoint == "" {
		return nil, fmt.Errorf("%w: instruction has no endpoint", apperrors.ErrMalformedModelOutput)
	}
	return &instruction, nil
}

// ResolveDispatchURL validates the instruction against the configured API
// base URL and the known endpoint set, returning the full dispatch target.
func (r *Relay) ResolveDispatchURL(instruction *DispatchInstruction) (string, error) {
	base := strings.TrimSuffix(r.cfg.APIBaseURL, "/")

	endpoint := instruction.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if _, ok := knownEndpoints[endpoint]; !ok {
		return "", fmt.Errorf("%w: unknown endpoint %q", apperrors.ErrMalformedModelOutput, instruction.Endpoint)
	}

	if instruction.URL != "" {
		supplied := strings.TrimSuffix(instruction.URL, "/")
		if supplied != base && !strings.HasPrefix(supplied, base+"/") {
			return "", fmt.Errorf("%w: url %q is outside the configured API base", apperrors.ErrMalformedModelOutput, instruction.URL)
		}
	}

	return base + endpoint, nil
}

// apiResponse is the envelope shape returned by the survey API.
type apiResponse struct {
	Status                 string       `json:"status"`
	Message                string       `json:"message"`
	Students               []studentRow `json:"students"`
	AverageDailyUsageHours *float64     `json:"average_daily_usage_hours"`
	RunID                  string       `json:"run_id"`
	StudentsImported       int64        `json:"students_imported"`
}

type studentRow struct {
	ID                int64  `json:"id"`
	Gender            string `json:"gender"`
	AcademicLevel     string `json:"academic_level"`
	CountryName       string `json:"country_name"`
	Platform          string `json:"platform"`
	Age               int    `json:"age"`
	AvgDailyUsage     int    `json:"avg_daily_usage_hours"`
	MentalHealthScore int    `json:"mental_health_score"`
	AddictedScore     int    `json:"addicted_score"`
}

// dispatch performs the validated HTTP call and renders the response.
func (r *Relay) dispatch(ctx context.Context, target string, params map[string]any) error {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode dispatch params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Info("Dispatching model instruction", zap.String("target", target))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read dispatch response: %w", err)
	}

	fmt.Fprintf(r.out, "\nResponse.status_code: %d\n", resp.StatusCode)
	r.renderResponse(payload)
	return nil
}

// renderResponse prints the API response: student rows as a table, scalar
// results and messages as plain lines, anything unrecognized verbatim.
func (r *Relay) renderResponse(payload []byte) {
	var parsed apiResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		fmt.Fprintln(r.out, string(payload))
		return
	}

	if parsed.Message != "" {
		fmt.Fprintln(r.out, parsed.Message)
	}
	if parsed.AverageDailyUsageHours != nil {
		fmt.Fprintf(r.out, "Average daily usage hours: %.2f\n", *parsed.AverageDailyUsageHours)
	}
	if parsed.RunID != "" {
		fmt.Fprintf(r.out, "Imported %d students (run %s)\n", parsed.StudentsImported, parsed.RunID)
	}
	if len(parsed.Students) > 0 {
		renderStudentsTable(r.out, parsed.Students)
	}
	if parsed.Status != "" {
		fmt.Fprintf(r.out, "Status: %s\n", parsed.Status)
	}
}

func (r *Relay) report(err error) {
	r.logger.Warn("Relay step failed", zap.Error(err))
	color.New(color.FgRed).Fprintf(r.out, "Error: %v\n", err)
}
