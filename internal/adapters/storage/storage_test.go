package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateContentType(t *testing.T) {
	cases := map[string]bool{
		"image/jpeg":                true,
		"IMAGE/PNG; charset=binary": true,
		"image/svg+xml":             false,
		"application/pdf":           false,
		"":                          false,
	}
	for contentType, ok := range cases {
		err := ValidateContentType(contentType)
		if ok && err != nil {
			t.Fatalf("%q: unexpected error %v", contentType, err)
		}
		if !ok && !errors.Is(err, ErrContentTypeNotAllowed) {
			t.Fatalf("%q: expected ErrContentTypeNotAllowed, got %v", contentType, err)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := ValidateFileSize(1024, 2048); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for _, size := range []int64{0, -1, 4096} {
		if err := ValidateFileSize(size, 2048); !errors.Is(err, ErrInvalidFileSize) {
			t.Fatalf("size %d: expected ErrInvalidFileSize, got %v", size, err)
		}
	}
}

func TestObjectKeyStaysInFolder(t *testing.T) {
	key := ObjectKey("profiles/abc", "../../etc/Avatar.JPG")
	if !strings.HasPrefix(key, "profiles/abc/Avatar_") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key = %q", key)
	}
	if strings.Contains(key, "..") {
		t.Fatalf("key escapes folder: %q", key)
	}

	if other := ObjectKey("profiles/abc", "../../etc/Avatar.JPG"); other == key {
		t.Fatal("keys must be unique")
	}
}
