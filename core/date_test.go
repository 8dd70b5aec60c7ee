package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_WeekStart(t *testing.T) {
	wed := NewDate(2024, time.May, 15)
	tests := []struct {
		name  string
		date  Date
		first time.Weekday
		want  Date
	}{
		{name: "monday weeks", date: wed, first: time.Monday, want: NewDate(2024, time.May, 13)},
		{name: "sunday weeks", date: wed, first: time.Sunday, want: NewDate(2024, time.May, 12)},
		{name: "first day itself", date: NewDate(2024, time.May, 13), first: time.Monday, want: NewDate(2024, time.May, 13)},
		{name: "across months", date: NewDate(2024, time.June, 1), first: time.Monday, want: NewDate(2024, time.May, 27)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.WeekStart(tt.first); !got.Equal(tt.want) {
				t.Errorf("WeekStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_Bounds(t *testing.T) {
	kinshasa := time.FixedZone("WAT", 3600)
	start, end := NewDate(2024, time.May, 15).Bounds(kinshasa)

	if want := time.Date(2024, time.May, 14, 23, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("end - start = %v, want 24h", got)
	}
	if start.Location() != time.UTC {
		t.Errorf("start location = %v, want UTC", start.Location())
	}
}

func TestDateOf(t *testing.T) {
	late := time.Date(2024, time.May, 15, 23, 30, 0, 0, time.UTC)
	if got := DateOf(late, time.FixedZone("WAT", 3600)); got.String() != "2024-05-16" {
		t.Errorf("DateOf() = %v, want 2024-05-16", got)
	}
	if got := DateOf(late, nil); got.String() != "2024-05-15" {
		t.Errorf("DateOf() = %v, want 2024-05-15", got)
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "date", input: `"2024-05-15"`, want: "2024-05-15"},
		{name: "timestamp keeps its day", input: `"2024-05-15T22:10:00Z"`, want: "2024-05-15"},
		{name: "null", input: `null`, want: ""},
		{name: "empty", input: `""`, want: ""},
		{name: "garbage", input: `"15/05/2024"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if d.String() != tt.want {
				t.Errorf("Unmarshal() = %q, want %q", d.String(), tt.want)
			}
		})
	}

	out, err := json.Marshal(struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}{A: NewDate(2024, time.May, 15)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"a":"2024-05-15","b":null}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    string
		wantErr bool
	}{
		{name: "nil", value: nil, want: ""},
		{name: "time", value: time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), want: "2024-05-15"},
		{name: "sqlite text", value: "2024-05-15 00:00:00+00:00", want: "2024-05-15"},
		{name: "bytes", value: []byte("2024-05-15"), want: "2024-05-15"},
		{name: "int", value: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.value); (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if d.String() != tt.want {
				t.Errorf("Scan() = %q, want %q", d.String(), tt.want)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name     string
		p        Pagination
		total    int64
		wantPage int
		wantLast int
	}{
		{name: "empty", p: Pagination{Page: 1, Size: 10}, total: 0, wantPage: 1, wantLast: 1},
		{name: "exact", p: Pagination{Page: 2, Size: 10}, total: 20, wantPage: 2, wantLast: 2},
		{name: "partial last page", p: Pagination{Page: 1, Size: 10}, total: 21, wantPage: 1, wantLast: 3},
		{name: "page defaults to 1", p: Pagination{Size: 10}, total: 5, wantPage: 1, wantLast: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(nil, tt.p, tt.total)
			if page.CurrentPage != tt.wantPage || page.LastPage != tt.wantLast || page.PerPage != tt.p.Size {
				t.Errorf("NewPage() = %+v, want page %d of %d", page, tt.wantPage, tt.wantLast)
			}
		})
	}

	if off := (Pagination{Page: 3, Size: 40}).Offset(); off != 80 {
		t.Errorf("Offset() = %d, want 80", off)
	}
}
