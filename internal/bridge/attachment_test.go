package bridge

import "testing"

func TestDeriveExtension(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		guessed     []string
		want        string
	}{
		{"first guess wins", "image/png", []string{".png"}, ".png"},
		{"jpe normalized", "image/jpeg", []string{".jpe", ".jpeg", ".jpg"}, ".jpg"},
		{"unmapped audio defaults", "audio/x-m4a", nil, ".mp3"},
		{"mapped audio keeps guess", "audio/ogg", []string{".ogg"}, ".ogg"},
		{"unmapped non-audio empty", "application/x-unknown", nil, ""},
		{"parameters stripped", "video/mp4; codecs=avc1", []string{".mp4"}, ".mp4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guess := func(mediaType string) []string {
				if tc.name == "parameters stripped" && mediaType != "video/mp4" {
					t.Errorf("parameters not stripped before guessing: %q", mediaType)
				}
				return tc.guessed
			}
			if got := deriveExtension(tc.contentType, guess); got != tc.want {
				t.Errorf("deriveExtension(%q) = %q, want %q", tc.contentType, got, tc.want)
			}
		})
	}
}

func TestExtensionFor_CommonTypes(t *testing.T) {
	// image/jpeg must map to something, and never the .jpe spelling,
	// regardless of what the platform mimetype table prefers.
	got := ExtensionFor("image/jpeg")
	if got == "" {
		t.Fatal("image/jpeg mapped to no extension")
	}
	if got == ".jpe" {
		t.Fatal("image/jpeg mapped to .jpe")
	}

	if got := ExtensionFor("audio/x-custom-nonexistent"); got != ".mp3" {
		t.Errorf("unmapped audio type: got %q, want .mp3", got)
	}
}
