package backup

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Decode parses and shape-checks a backup. Workouts go through the schema
// migration, so backups written before Days existed still import. Dates may
// be RFC 3339 strings, plain dates or epoch milliseconds; a missing date
// becomes importedAt.
func Decode(data []byte, importedAt time.Time) (*Envelope, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: top level must be a JSON object", ErrInvalidFormat)
	}

	env := &Envelope{}

	workouts, err := objectArray(top, "workouts")
	if err != nil {
		return nil, err
	}
	for i, doc := range workouts {
		repository.MigrateWorkoutDocument(doc)
		if err := rehydrate(doc, importedAt, "createdAt", "updatedAt"); err != nil {
			return nil, fmt.Errorf("%w: workouts[%d]: %v", ErrInvalidFormat, i, err)
		}
		var w domain.Workout
		if err := remarshal(doc, &w); err != nil {
			return nil, fmt.Errorf("%w: workouts[%d]: %v", ErrInvalidFormat, i, err)
		}
		env.Workouts = append(env.Workouts, w)
	}

	clients, err := objectArray(top, "clients")
	if err != nil {
		return nil, err
	}
	for i, doc := range clients {
		if err := rehydrate(doc, importedAt, "createdAt"); err != nil {
			return nil, fmt.Errorf("%w: clients[%d]: %v", ErrInvalidFormat, i, err)
		}
		var c domain.Client
		if err := remarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("%w: clients[%d]: %v", ErrInvalidFormat, i, err)
		}
		env.Clients = append(env.Clients, c)
	}

	if raw, ok := top["coachProfile"]; ok && !isNull(raw) {
		if firstByte(raw) != '{' {
			return nil, fmt.Errorf("%w: coachProfile must be an object", ErrInvalidFormat)
		}
		var p domain.CoachProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: coachProfile: %v", ErrInvalidFormat, err)
		}
		env.CoachProfile = &p
	}
	return env, nil
}

// objectArray returns top[key] as a list of objects. An absent key is an
// empty list; null, scalars and non-object items are rejected.
func objectArray(top map[string]json.RawMessage, key string) ([]map[string]any, error) {
	raw, ok := top[key]
	if !ok {
		return nil, nil
	}
	if firstByte(raw) != '[' {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidFormat, key)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, key, err)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		if firstByte(item) != '{' {
			return nil, fmt.Errorf("%w: %s[%d] must be an object", ErrInvalidFormat, key, i)
		}
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrInvalidFormat, key, i, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// rehydrate rewrites each date field as an RFC 3339 string.
func rehydrate(doc map[string]any, fallback time.Time, keys ...string) error {
	for _, key := range keys {
		t, err := parseDate(doc[key], fallback)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		doc[key] = t.UTC().Format(time.RFC3339Nano)
	}
	return nil
}

func parseDate(v any, fallback time.Time) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return fallback, nil
	case json.Number:
		if ms, err := d.Int64(); err == nil {
			return time.UnixMilli(ms), nil
		}
		f, err := d.Float64()
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(int64(f)), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return fallback, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms), nil
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unexpected date value %v", v)
	}
}

func remarshal(doc map[string]any, out any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
