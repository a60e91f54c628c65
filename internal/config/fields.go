package config

import (
	"fmt"
	"sort"
	"strings"
)

// Role names one of the metadata lookups used while labelling the hierarchy.
type Role string

const (
	RoleSubjectCode      Role = "subject_code"
	RoleSessionLabel     Role = "session_label"
	RoleAcquisitionLabel Role = "acquisition_label"
	RoleDatasetLabel     Role = "dataset_label"
	RoleExamNumber       Role = "exam_number"
)

// NullField clears a role so the lookup always yields the role's default.
const NullField = "null"

// Roles lists every configurable role in display order.
func Roles() []Role {
	return []Role{RoleSubjectCode, RoleSessionLabel, RoleAcquisitionLabel, RoleDatasetLabel, RoleExamNumber}
}

// FieldNames is the resolved, read-only field configuration handed to the
// scanner. An empty name means the role is cleared.
type FieldNames struct {
	SubjectCode      string
	SessionLabel     string
	AcquisitionLabel string
	DatasetLabel     string
	ExamNumber       string
}

// DefaultFieldNames resolves the built-in tag defaults.
func DefaultFieldNames() FieldNames {
	names, _ := DefaultTags().FieldNames(nil)
	return names
}

// FieldNames layers overrides on top of the configured tags. Override keys are
// role names; the value "null" clears the role.
func (t Tags) FieldNames(overrides map[Role]string) (FieldNames, error) {
	resolved := map[Role]string{
		RoleSubjectCode:      t.SubjectCode,
		RoleSessionLabel:     t.SessionLabel,
		RoleAcquisitionLabel: t.AcquisitionLabel,
		RoleDatasetLabel:     t.DatasetLabel,
		RoleExamNumber:       t.ExamNumber,
	}
	for role, field := range overrides {
		if _, ok := resolved[role]; !ok {
			return FieldNames{}, fmt.Errorf("unknown tag role %q (valid: %s)", role, roleList())
		}
		resolved[role] = strings.TrimSpace(field)
	}
	clean := func(role Role) string {
		value := resolved[role]
		if strings.EqualFold(value, NullField) {
			return ""
		}
		return value
	}
	return FieldNames{
		SubjectCode:      clean(RoleSubjectCode),
		SessionLabel:     clean(RoleSessionLabel),
		AcquisitionLabel: clean(RoleAcquisitionLabel),
		DatasetLabel:     clean(RoleDatasetLabel),
		ExamNumber:       clean(RoleExamNumber),
	}, nil
}

// ParseTagOverrides converts "role=Field" pairs into an override map. Later
// pairs for the same role win.
func ParseTagOverrides(pairs []string) (map[Role]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[Role]string, len(pairs))
	for _, pair := range pairs {
		role, field, ok := strings.Cut(pair, "=")
		role = strings.TrimSpace(role)
		field = strings.TrimSpace(field)
		if !ok || role == "" || field == "" {
			return nil, fmt.Errorf("tag override %q must look like role=Field", pair)
		}
		out[Role(strings.ToLower(role))] = field
	}
	return out, nil
}

func roleList() string {
	names := make([]string, 0, len(Roles()))
	for _, role := range Roles() {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
