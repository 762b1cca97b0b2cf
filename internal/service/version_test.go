package service

import (
	"testing"
	"time"

	"notetree-be/internal/entity"
)

func TestHashContent(t *testing.T) {
	a := hashContent("hello")
	b := hashContent("hello")
	c := hashContent("hello ")

	if a != b {
		t.Errorf("same content must hash identically")
	}
	if a == c {
		t.Errorf("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestShouldSnapshot(t *testing.T) {
	now := time.Now()
	hash := hashContent("current content")

	tests := []struct {
		name   string
		latest *entity.NoteVersion
		want   bool
	}{
		{
			name:   "no versions yet",
			latest: nil,
			want:   true,
		},
		{
			name: "identical content skipped regardless of age",
			latest: &entity.NoteVersion{
				ContentHash: hash,
				CreatedAt:   now.Add(-time.Hour),
			},
			want: false,
		},
		{
			name: "changed content inside throttle window",
			latest: &entity.NoteVersion{
				ContentHash: hashContent("older content"),
				CreatedAt:   now.Add(-10 * time.Second),
			},
			want: false,
		},
		{
			name: "changed content exactly at window boundary",
			latest: &entity.NoteVersion{
				ContentHash: hashContent("older content"),
				CreatedAt:   now.Add(-versionThrottleWindow),
			},
			want: true,
		},
		{
			name: "changed content past the window",
			latest: &entity.NoteVersion{
				ContentHash: hashContent("older content"),
				CreatedAt:   now.Add(-time.Minute),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSnapshot(tt.latest, hash, now); got != tt.want {
				t.Errorf("shouldSnapshot() = %v, want %v", got, tt.want)
			}
		})
	}
}
