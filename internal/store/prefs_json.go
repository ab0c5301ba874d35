package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

func (s Store) loadJSON() (Map, error) {
	b, err := os.ReadFile(s.jsonPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Map{}, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return Map{}, nil
	}
	m := Map{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.jsonPath(), err)
	}
	return m, nil
}

func (s Store) saveJSON(m Map) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, prefsFileName+".*.tmp", s.jsonPath(), b, 0o644)
}
