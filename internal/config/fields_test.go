package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldNamesLayersOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[Role]string
		want      FieldNames
		wantErr   bool
	}{
		{
			name: "defaults",
			want: FieldNames{
				SubjectCode:      "PatientID",
				SessionLabel:     "StudyDescription",
				AcquisitionLabel: "SeriesDescription",
				DatasetLabel:     "SeriesNumber",
				ExamNumber:       "StudyID",
			},
		},
		{
			name:      "override and clear",
			overrides: map[Role]string{RoleSessionLabel: "StudyID", RoleDatasetLabel: "NULL"},
			want: FieldNames{
				SubjectCode:      "PatientID",
				SessionLabel:     "StudyID",
				AcquisitionLabel: "SeriesDescription",
				DatasetLabel:     "",
				ExamNumber:       "StudyID",
			},
		},
		{
			name:      "unknown role",
			overrides: map[Role]string{"bogus": "PatientID"},
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DefaultTags().FieldNames(tc.overrides)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("field names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTagOverrides(t *testing.T) {
	got, err := ParseTagOverrides([]string{"Subject_Code=PatientName", "exam_number=null", "subject_code=OtherPatientIDs"})
	if err != nil {
		t.Fatalf("ParseTagOverrides: %v", err)
	}
	want := map[Role]string{RoleSubjectCode: "OtherPatientIDs", RoleExamNumber: "null"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"subject_code", "=PatientID", "subject_code="} {
		if _, err := ParseTagOverrides([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
