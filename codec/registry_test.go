package codec_test

import (
	"testing"

	"github.com/cocosip/go-jpegls/codec"
	_ "github.com/cocosip/go-jpegls/jpegls"
)

func TestCodecRegistry(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFound bool
		wantUID   string
		wantName  string
	}{
		{
			name:      "Get lossless by UID",
			key:       "1.2.840.10008.1.2.4.80",
			wantFound: true,
			wantUID:   "1.2.840.10008.1.2.4.80",
			wantName:  "jpegls-lossless",
		},
		{
			name:      "Get lossless by name",
			key:       "jpegls-lossless",
			wantFound: true,
			wantUID:   "1.2.840.10008.1.2.4.80",
			wantName:  "jpegls-lossless",
		},
		{
			name:      "Get near-lossless by UID",
			key:       "1.2.840.10008.1.2.4.81",
			wantFound: true,
			wantUID:   "1.2.840.10008.1.2.4.81",
			wantName:  "jpegls-near-lossless",
		},
		{
			name:      "Get near-lossless by name",
			key:       "jpegls-near-lossless",
			wantFound: true,
			wantUID:   "1.2.840.10008.1.2.4.81",
			wantName:  "jpegls-near-lossless",
		},
		{
			name:      "Get non-existent codec",
			key:       "non-existent",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := codec.Get(tt.key)

			if tt.wantFound {
				if err != nil {
					t.Errorf("Get(%q) unexpected error: %v", tt.key, err)
					return
				}
				if c == nil {
					t.Errorf("Get(%q) returned nil codec", tt.key)
					return
				}
				if c.UID() != tt.wantUID {
					t.Errorf("Get(%q).UID() = %q, want %q", tt.key, c.UID(), tt.wantUID)
				}
				if c.Name() != tt.wantName {
					t.Errorf("Get(%q).Name() = %q, want %q", tt.key, c.Name(), tt.wantName)
				}
			} else {
				if err == nil {
					t.Errorf("Get(%q) expected error, got nil", tt.key)
				}
				if err != codec.ErrCodecNotFound {
					t.Errorf("Get(%q) error = %v, want %v", tt.key, err, codec.ErrCodecNotFound)
				}
			}
		})
	}
}

func TestListCodecs(t *testing.T) {
	codecs := codec.List()

	if len(codecs) < 2 {
		t.Errorf("List() returned %d codecs, want at least 2", len(codecs))
	}

	foundLossless := false
	foundNearLossless := false

	for _, c := range codecs {
		switch c.UID() {
		case "1.2.840.10008.1.2.4.80":
			foundLossless = true
		case "1.2.840.10008.1.2.4.81":
			foundNearLossless = true
		}
	}

	if !foundLossless {
		t.Error("List() missing the JPEG-LS lossless codec")
	}
	if !foundNearLossless {
		t.Error("List() missing the JPEG-LS near-lossless codec")
	}
}
