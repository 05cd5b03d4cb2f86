package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitQuoted(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`VKOHLI`, []string{"VKOHLI"}},
		{`VKOHLI  JBUMRAH`, []string{"VKOHLI", "JBUMRAH"}},
		{`"V Kohli" JBUMRAH`, []string{"V Kohli", "JBUMRAH"}},
		{`"MS Dhoni"`, []string{"MS Dhoni"}},
		{``, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitQuoted(tt.in)); diff != "" {
			t.Errorf("splitQuoted(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
