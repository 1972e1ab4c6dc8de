package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseISODate(t *testing.T) {
	d := ParseISODate("1999-06-14")
	if d.Year != 1999 || d.Month != time.June || d.Day != 14 {
		t.Errorf("expected 1999-06-14, got %s", d)
	}

	if d := ParseISODate("not a date"); d.Valid() {
		t.Errorf("expected invalid date, got %s", d)
	}
	if d := ParseISODate(""); d.Valid() {
		t.Errorf("expected invalid date for empty input, got %s", d)
	}
}

func TestParseReleasedDate(t *testing.T) {
	t.Run("full released format", func(t *testing.T) {
		d := ParseReleasedDate("14 Jun 1999", "1999")
		if d.Year != 1999 || d.Month != time.June || d.Day != 14 {
			t.Errorf("expected 1999-06-14, got %s", d)
		}
	})

	t.Run("falls back to year", func(t *testing.T) {
		d := ParseReleasedDate("N/A", "2005")
		if d.Year != 2005 || d.Month != time.January || d.Day != 1 {
			t.Errorf("expected 2005-01-01, got %s", d)
		}
	})

	t.Run("year range keeps first year", func(t *testing.T) {
		d := ParseReleasedDate("", "2005-2009")
		if d.Year != 2005 || d.Month != time.January || d.Day != 1 {
			t.Errorf("expected 2005-01-01, got %s", d)
		}
	})

	t.Run("both unusable", func(t *testing.T) {
		if d := ParseReleasedDate("N/A", "N/A"); d.Valid() {
			t.Errorf("expected invalid date, got %s", d)
		}
		if d := ParseReleasedDate("", ""); d.Valid() {
			t.Errorf("expected invalid date, got %s", d)
		}
	})
}

func TestDateString(t *testing.T) {
	if s := NewDate(2010, time.March, 7).String(); s != "2010-03-07" {
		t.Errorf("expected 2010-03-07, got %q", s)
	}
	if s := (Date{}).String(); s != "" {
		t.Errorf("expected empty string for unknown date, got %q", s)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	original := NewDate(1994, time.September, 23)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1994-09-23"` {
		t.Errorf("unexpected encoding %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Errorf("round trip changed date: %s -> %s", original, decoded)
	}
}

func TestDateUnmarshalNeverFails(t *testing.T) {
	for _, input := range []string{`"garbage"`, `""`, `42`, `null`} {
		var d Date
		if err := json.Unmarshal([]byte(input), &d); err != nil {
			t.Errorf("unmarshal %s returned error: %v", input, err)
		}
		if d.Valid() {
			t.Errorf("unmarshal %s produced valid date %s", input, d)
		}
	}
}
