package triage

import (
	"errors"
	"testing"
)

func TestParseAgeGroup(t *testing.T) {
	cases := map[string]AgeGroup{
		"young_infant": AgeYoungInfant,
		"0_2m":         AgeYoungInfant,
		" Infant ":     AgeInfant,
		"2_12m":        AgeInfant,
		"child":        AgeChild,
		"1_5y":         AgeChild,
	}
	for raw, want := range cases {
		got, err := ParseAgeGroup(raw)
		if err != nil || got != want {
			t.Errorf("ParseAgeGroup(%q) = %q, %v", raw, got, err)
		}
	}

	_, err := ParseAgeGroup("teen")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != FieldAgeGroup || ve.Value != "teen" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseEnums_RejectUnknown(t *testing.T) {
	if _, err := ParseMUACColor("blue"); err == nil {
		t.Fatal("expected error for blue MUAC")
	}
	if _, err := ParseMUACColor(""); err == nil {
		t.Fatal("empty MUAC must not default to not_measured")
	}
	if m, err := ParseMUACColor("RED"); err != nil || m != MUACRed {
		t.Fatalf("ParseMUACColor(RED) = %q, %v", m, err)
	}
	if _, err := ParseRDTResult("maybe"); err == nil {
		t.Fatal("expected error for unknown RDT result")
	}
	if r, err := ParseRDTResult("positive"); err != nil || r != RDTPositive {
		t.Fatalf("ParseRDTResult(positive) = %q, %v", r, err)
	}
}

func TestParseRespiratoryRate(t *testing.T) {
	cases := []struct {
		raw  string
		want *int
	}{
		{"", nil},
		{"  ", nil},
		{"48", intPtr(48)},
		{" 52 ", intPtr(52)},
		{"0", intPtr(0)},
		{"-5", nil},
		{"4.5", nil},
		{"fast", nil},
		{"99999999999999999999999", nil},
	}
	for _, tc := range cases {
		got := ParseRespiratoryRate(tc.raw)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("ParseRespiratoryRate(%q) = %d, want nil", tc.raw, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("ParseRespiratoryRate(%q) = %v, want %d", tc.raw, got, *tc.want)
		}
	}
}

func TestAnswerSetValidate(t *testing.T) {
	if err := baseAnswers(AgeChild).Validate(); err != nil {
		t.Fatalf("valid answers rejected: %v", err)
	}

	cases := map[string]struct {
		a     AnswerSet
		field string
	}{
		"missing age":   {AnswerSet{MUAC: MUACGreen, RDT: RDTNotDone}, FieldAgeGroup},
		"missing muac":  {AnswerSet{AgeGroup: AgeChild, RDT: RDTNotDone}, FieldMUAC},
		"unknown rdt":   {AnswerSet{AgeGroup: AgeChild, MUAC: MUACGreen, RDT: "pending"}, FieldRDT},
		"negative rate": {AnswerSet{AgeGroup: AgeChild, MUAC: MUACGreen, RDT: RDTNotDone, RespiratoryRate: intPtr(-1)}, FieldRespiratoryRate},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var ve *ValidationError
			if err := tc.a.Validate(); !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("Validate() = %v, want field %s", err, tc.field)
			}
		})
	}
}

func TestCondition_TextRoundTrip(t *testing.T) {
	for _, c := range Conditions() {
		b, err := c.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Condition
		if err := back.UnmarshalText(b); err != nil || back != c {
			t.Fatalf("%s round trip = %v, %v", c, back, err)
		}
	}
	if _, err := Condition(9).MarshalText(); err == nil {
		t.Fatal("expected error for out of range condition")
	}
	if _, err := ParseCondition("Pneumonia"); err == nil {
		t.Fatal("display labels are not identifiers")
	}
}

func TestFingerprint(t *testing.T) {
	a := baseAnswers(AgeChild)
	b := baseAnswers(AgeChild)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal answers must share a fingerprint")
	}

	b.RespiratoryRate = intPtr(0)
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("unmeasured and zero respiratory rate must differ")
	}
}
