package main

import (
	"bytes"
	"testing"
)

func TestBuildApplicationPDF(t *testing.T) {
	sub := Submission{
		{Name: "name", Value: "Jo Müller"},
		{Name: "Name-of-dog-interested-in-adopting", Value: "Rex"},
		{Name: "good-with-kids", Value: "on"},
		{Name: "why-this-dog", Value: "A long answer that will wrap across more than one line of the printed application form, because applicants like to explain themselves."},
	}

	out, err := buildApplicationPDF(sub)
	if err != nil {
		t.Fatalf("buildApplicationPDF() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", out[:min(len(out), 8)])
	}
}

func TestBuildApplicationPDFEmptySubmission(t *testing.T) {
	out, err := buildApplicationPDF(Submission{})
	if err != nil {
		t.Fatalf("buildApplicationPDF() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected a document for an empty submission")
	}
}
