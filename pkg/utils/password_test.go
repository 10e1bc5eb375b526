package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "pw1" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword("pw1", h) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("pw2", h) {
		t.Fatal("wrong password accepted")
	}
	h2, _ := HashPassword("pw1")
	if h == h2 {
		t.Fatal("hashes are not salted")
	}
}

func TestHashPasswordLong(t *testing.T) {
	long := strings.Repeat("x", 100)
	h, err := HashPassword(long)
	if err != nil {
		t.Fatalf("hash 100-byte password: %v", err)
	}
	if !CheckPassword(long, h) {
		t.Fatal("long password rejected")
	}
	// 只差第 100 个字节也必须区分开
	if CheckPassword(strings.Repeat("x", 99)+"y", h) {
		t.Fatal("password differing after byte 72 accepted")
	}
}
