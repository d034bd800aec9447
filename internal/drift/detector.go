// Package drift compares the effective values of a check with those of an
// artifact written by an earlier run.
package drift

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"

	"inputparser/internal/artifact"
	"inputparser/internal/constraint"
)

// DriftType represents the type of value change.
type DriftType string

const (
	DriftAdded   DriftType = "added"   // Key in current but not previous
	DriftRemoved DriftType = "removed" // Key in previous but not current
	DriftChanged DriftType = "changed" // Key in both with different values
)

// KeyDrift represents a single key's drift.
type KeyDrift struct {
	Key           string    `json:"key"`
	Type          DriftType `json:"type"`
	PreviousValue string    `json:"previousValue,omitempty"`
	CurrentValue  string    `json:"currentValue,omitempty"`
}

// DriftReport contains the full drift analysis.
type DriftReport struct {
	HasDrift     bool       `json:"hasDrift"`
	PreviousPath string     `json:"previousPath"`
	PreviousHash string     `json:"previousHash"`
	CurrentHash  string     `json:"currentHash"`
	Changes      []KeyDrift `json:"changes"`
}

// Detect compares current against previous, the artifact loaded from
// previousPath.
func Detect(previous, current artifact.ConfigArtifact, previousPath string) DriftReport {
	report := DriftReport{
		PreviousPath: previousPath,
		PreviousHash: previous.ConfigVersion,
		CurrentHash:  current.ConfigVersion,
		Changes:      []KeyDrift{},
	}

	// Quick check: if hashes match, no drift
	if previous.ConfigVersion == current.ConfigVersion {
		return report
	}

	allKeys := make(map[string]bool)
	for k := range previous.Values {
		allKeys[k] = true
	}
	for k := range current.Values {
		allKeys[k] = true
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prevVal, inPrevious := previous.Values[key]
		currVal, inCurrent := current.Values[key]

		switch {
		case inPrevious && !inCurrent:
			report.Changes = append(report.Changes, KeyDrift{
				Key:           key,
				Type:          DriftRemoved,
				PreviousValue: constraint.Format(prevVal),
			})
		case !inPrevious && inCurrent:
			report.Changes = append(report.Changes, KeyDrift{
				Key:          key,
				Type:         DriftAdded,
				CurrentValue: constraint.Format(currVal),
			})
		case !sameValue(prevVal, currVal):
			report.Changes = append(report.Changes, KeyDrift{
				Key:           key,
				Type:          DriftChanged,
				PreviousValue: constraint.Format(prevVal),
				CurrentValue:  constraint.Format(currVal),
			})
		}
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}

// sameValue compares values in the canonical form the config version is
// hashed from, so 1.0 read back from a JSON artifact equals the int 1 and
// NaN equals NaN.
func sameValue(a, b any) bool {
	aj, errA := json.Marshal(artifact.Canonical(a))
	bj, errB := json.Marshal(artifact.Canonical(b))
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(aj, bj)
}
