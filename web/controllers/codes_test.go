package controllers

import (
	"testing"
	"time"
)

func TestCheckCodeConsumes(t *testing.T) {
	storeCode("login:1", "123456")

	if checkCode("login:1", "999999") {
		t.Error("Expected wrong code to be rejected")
	}
	if !checkCode("login:1", "123456") {
		t.Error("Expected correct code to be accepted")
	}
	if checkCode("login:1", "123456") {
		t.Error("Expected code to be single use")
	}
}

func TestCheckCodeExpiry(t *testing.T) {
	storeCode("reset:a@b.c", "654321")

	codeMutex.Lock()
	entry := codeCache["reset:a@b.c"]
	entry.expires = time.Now().Add(-time.Second)
	codeCache["reset:a@b.c"] = entry
	codeMutex.Unlock()

	if checkCode("reset:a@b.c", "654321") {
		t.Error("Expected expired code to be rejected")
	}
}

func TestCheckCodeUnknownKey(t *testing.T) {
	if checkCode("login:missing", "123456") {
		t.Error("Expected unknown key to be rejected")
	}
	if checkCode("login:missing", "") {
		t.Error("Expected empty code to be rejected")
	}
}
