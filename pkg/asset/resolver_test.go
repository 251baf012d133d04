package asset

import "testing"

func TestGenerateIndexedPath(t *testing.T) {
	cases := []struct {
		base  string
		index int
		want  string
	}{
		{"output/gemini_output.png", 1, "output/gemini_output_1.png"},
		{"output/gemini_output.png", 2, "output/gemini_output_2.png"},
		{"gs://bucket/dir/gemini_output.png", 3, "gs://bucket/dir/gemini_output_3.png"},
	}
	for _, c := range cases {
		got, err := GenerateIndexedPath(c.base, c.index)
		if err != nil {
			t.Fatalf("%q (%d): 予期しないエラー: %v", c.base, c.index, err)
		}
		if got != c.want {
			t.Errorf("%q (%d): 期待値 %q, 実際の値 %q", c.base, c.index, got, c.want)
		}
	}
}

func TestTextSidecarPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"output/gemini_output.png", "output/gemini_output.txt"},
		{"gs://bucket/dir/result.png", "gs://bucket/dir/result.txt"},
		{"output/noext", "output/noext.txt"},
		{"out.put/noext", "out.put/noext.txt"},
	}
	for _, c := range cases {
		if got := TextSidecarPath(c.in); got != c.want {
			t.Errorf("%q: 期待値 %q, 実際の値 %q", c.in, c.want, got)
		}
	}
}
