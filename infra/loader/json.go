package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/mitchellh/mapstructure"
)

// document decodes a JSON object keeping numbers exact.
func document(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid("json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, invalid("json: trailing data after the document")
	}
	return doc, nil
}

// objects returns the array of objects stored under key. Only the listed
// top-level keys may appear.
func objects(doc map[string]any, key string, allowed ...string) ([]map[string]any, error) {
	for k := range doc {
		if !contains(allowed, k) {
			return nil, invalid("json: unexpected key %q", k)
		}
	}
	raw, ok := doc[key].([]any)
	if !ok {
		return nil, invalid("json: %q must be an array", key)
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("json: %s[%d] must be an object", key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}

// fields checks that every required key is present and that the optional
// keys appear exactly as listed in want.
func fields(obj map[string]any, required []string, optional map[string]bool) error {
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			return invalid("json: missing key %q", k)
		}
	}
	for k, want := range optional {
		if _, ok := obj[k]; ok != want {
			if want {
				return invalid("json: missing key %q", k)
			}
			return invalid("json: key %q not allowed here", k)
		}
	}
	return nil
}

// decode fills out from obj using json tags and rejects unknown keys.
func decode(obj map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(obj); err != nil {
		return invalid("json: %v", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
