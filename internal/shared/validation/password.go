package validation

import (
	"strings"
	"unicode/utf8"

	"blog-backend/internal/shared/apperr"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// PasswordPolicy mirrors config.PasswordConfig.
type PasswordPolicy struct {
	MinLength  int
	MaxLength  int
	MinEntropy float64
}

// Strength is the estimate behind a password decision.
type Strength struct {
	Entropy  float64
	Feedback string
}

// EstimateStrength scores password with zxcvbn; userInputs (email, names)
// are treated as a dictionary of guessable words.
func EstimateStrength(password string, userInputs []string) Strength {
	inputs := make([]string, 0, len(userInputs))
	for _, in := range userInputs {
		if in = strings.TrimSpace(strings.ToLower(in)); in != "" {
			inputs = append(inputs, in)
			// "jane.doe@example.com" also contributes "jane.doe"
			if local, _, ok := strings.Cut(in, "@"); ok && local != "" {
				inputs = append(inputs, local)
			}
		}
	}

	result := zxcvbn.PasswordStrength(password, inputs)

	matches := make([]matchInfo, 0, len(result.MatchSequence))
	for _, m := range result.MatchSequence {
		matches = append(matches, matchInfo{pattern: m.Pattern, dictionary: m.DictionaryName})
	}

	return Strength{Entropy: result.Entropy, Feedback: feedback(matches)}
}

// CheckPassword enforces the length bounds and the entropy floor.
func (p PasswordPolicy) CheckPassword(password string, userInputs []string) error {
	length := utf8.RuneCountInString(password)
	if length < p.MinLength {
		return apperr.Validation("Password must be at least %d characters", p.MinLength)
	}
	if length > p.MaxLength {
		return apperr.Validation("Password must not exceed %d characters", p.MaxLength)
	}

	strength := EstimateStrength(password, userInputs)
	if strength.Entropy < p.MinEntropy {
		return apperr.Validation(
			"Weak password, password strength is (%.1f bits, minimum %g). %s",
			strength.Entropy, p.MinEntropy, strength.Feedback,
		)
	}
	return nil
}

type matchInfo struct {
	pattern    string
	dictionary string
}

const generalSuggestion = "Add another word or two. Uncommon words are better."

// feedback turns the weakest patterns zxcvbn found into a warning plus suggestions.
func feedback(matches []matchInfo) string {
	var warning string
	for _, m := range matches {
		switch {
		case m.pattern == "dictionary" && m.dictionary == "user_inputs":
			warning = "Avoid using your name or email address in the password."
		case m.pattern == "dictionary" && warning == "":
			warning = "This is similar to a commonly used password."
		case m.pattern == "spatial" && warning == "":
			warning = "Straight rows of keys are easy to guess."
		case m.pattern == "repeat" && warning == "":
			warning = `Repeats like "aaa" are easy to guess.`
		case m.pattern == "sequence" && warning == "":
			warning = "Sequences like abc or 6543 are easy to guess."
		case (m.pattern == "date" || m.pattern == "year") && warning == "":
			warning = "Dates are often easy to guess."
		}
	}

	if warning == "" {
		return generalSuggestion
	}
	return warning + " " + generalSuggestion
}
