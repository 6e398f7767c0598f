// Package prompts renders prompt template files with placeholder substitution.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
)

// placeholderPattern matches ${name} placeholders in template text.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render loads <dir>/<name>.txt and substitutes ${placeholder} occurrences
// from vars. Substitution is safe rather than strict: placeholders without a
// matching key stay literally in the output.
//
// Returns apperrors.ErrTemplateNotFound if the template file is absent.
func Render(dir, name string, vars map[string]string) (string, error) {
	path := filepath.Join(dir, name+".txt")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(string(raw), func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})

	return rendered, nil
}
