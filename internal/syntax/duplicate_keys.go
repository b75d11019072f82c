package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DetectDuplicateKeys walks raw JSON bytes at the token level (rather
// than through value.FromJSON, whose OrderedMap.Set silently overwrites
// a repeated key) and reports every object key that appears more than
// once within the same object, so the loss of information happens
// loudly instead of silently at document load.
func DetectDuplicateKeys(raw []byte) ([]Suggestion, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out []Suggestion
	if err := walkTokensForDuplicates(dec, "$", &out); err != nil {
		return nil, fmt.Errorf("scanning for duplicate keys: %w", err)
	}
	return out, nil
}

func walkTokensForDuplicates(dec *json.Decoder, path string, out *[]Suggestion) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil // scalar, nothing to do
	}

	switch delim {
	case '{':
		seen := map[string]int{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := keyTok.(string)
			seen[key]++
			childPath := fmt.Sprintf("%s.%s", path, key)
			if seen[key] > 1 {
				*out = append(*out, Suggestion{
					Path:       childPath,
					Kind:       KindDuplicateKey,
					Message:    fmt.Sprintf("key %q is repeated within the same object; only the last occurrence survives parsing", key),
					Correction: "rename or merge the duplicate keys",
				})
			}
			if err := walkTokensForDuplicates(dec, childPath, out); err != nil {
				return err
			}
		}
		_, err := dec.Token() // consume '}'
		return err
	case '[':
		i := 0
		for dec.More() {
			if err := walkTokensForDuplicates(dec, fmt.Sprintf("%s[%d]", path, i), out); err != nil {
				return err
			}
			i++
		}
		_, err := dec.Token() // consume ']'
		return err
	default:
		return nil
	}
}
