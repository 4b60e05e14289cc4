package httpcache

import (
	"path/filepath"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"))

	const url = "http://example.org/martservice?type=registry"

	if _, ok := c.Get(url); ok {
		t.Fatal("hit on empty cache")
	}

	if err := c.Put(url, []byte("registry body")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	body, ok := c.Get(url)
	if !ok {
		t.Fatal("miss after Put")
	}
	if string(body) != "registry body" {
		t.Errorf("body = %q", body)
	}

	// Same key overwrites.
	if err := c.Put(url, []byte("newer body")); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	body, _ = c.Get(url)
	if string(body) != "newer body" {
		t.Errorf("body after overwrite = %q", body)
	}

	// Different URLs don't collide.
	if _, ok := c.Get(url + "&mart=m"); ok {
		t.Error("hit for a different URL")
	}
}

func TestClear(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"))

	// Clearing a directory that was never written is fine.
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear on empty cache: %v", err)
	}

	if err := c.Put("a", []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put("b", []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if _, ok := c.Get("x"); ok {
		t.Error("nil cache hit")
	}
	if err := c.Put("x", []byte("y")); err != nil {
		t.Errorf("nil cache Put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("nil cache Clear: %v", err)
	}
}
