package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUpsertSessionKeepsFirstAttributes(t *testing.T) {
	h := New()
	first, created := h.UpsertSession("1.2.3", "subj-a", "Brain")
	if !created {
		t.Fatal("expected first upsert to create the session")
	}
	second, created := h.UpsertSession("1.2.3", "subj-b", "Other")
	if created {
		t.Fatal("expected second upsert to reuse the session")
	}
	if first != second {
		t.Fatal("expected the same session handle")
	}
	if second.SubjectCode != "subj-a" || second.Label != "Brain" {
		t.Fatalf("session attributes changed: %+v", second)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", h.Len())
	}
}

func TestIterationFollowsInsertionOrder(t *testing.T) {
	h := New()
	for _, uid := range []string{"9", "1", "5"} {
		h.UpsertSession(uid, "", "")
	}
	session, _ := h.Session("1")
	for _, key := range []string{"b", "a", "c", "a"} {
		session.UpsertAcquisition(key, key)
	}

	var sessions []string
	for _, s := range h.Sessions() {
		sessions = append(sessions, s.UID)
	}
	if diff := cmp.Diff([]string{"9", "1", "5"}, sessions); diff != "" {
		t.Fatalf("session order mismatch (-want +got):\n%s", diff)
	}

	var acqs []string
	for _, a := range session.Acquisitions() {
		acqs = append(acqs, a.Key)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, acqs); diff != "" {
		t.Fatalf("acquisition order mismatch (-want +got):\n%s", diff)
	}
}

func TestPutImageLastPathWins(t *testing.T) {
	h := New()
	session, _ := h.UpsertSession("s", "", "")
	acq, _ := session.UpsertAcquisition("a", "")
	ds, _ := acq.UpsertDataset("a", DatasetTypeDICOM, "1 - T1")

	if replaced := ds.PutImage("img-1", "/first.dcm"); replaced {
		t.Fatal("first put should not report replacement")
	}
	ds.PutImage("img-2", "/other.dcm")
	if replaced := ds.PutImage("img-1", "/second.dcm"); !replaced {
		t.Fatal("second put should report replacement")
	}

	want := []Image{{ID: "img-1", Path: "/second.dcm"}, {ID: "img-2", Path: "/other.dcm"}}
	if diff := cmp.Diff(want, ds.Images()); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if ds.ImageCount() != 2 {
		t.Fatalf("expected 2 images, got %d", ds.ImageCount())
	}
}

func TestZeroValueHierarchyIsUsable(t *testing.T) {
	var h Hierarchy
	if _, ok := h.Session("missing"); ok {
		t.Fatal("unexpected session in empty hierarchy")
	}
	h.UpsertSession("s", "c", "l")
	if h.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", h.Len())
	}
}

func TestSetLabelOverwrites(t *testing.T) {
	h := New()
	session, _ := h.UpsertSession("s", "", "")
	acq, _ := session.UpsertAcquisition("a", "derived")
	again, _ := session.UpsertAcquisition("a", "ignored")
	if again.Label != "derived" {
		t.Fatalf("upsert must not change label, got %q", again.Label)
	}
	acq.SetLabel("primary")
	got, _ := session.Acquisition("a")
	if got.Label != "primary" {
		t.Fatalf("expected label primary, got %q", got.Label)
	}
}
