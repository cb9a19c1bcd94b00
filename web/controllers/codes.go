package controllers

import (
	"sync"
	"time"
)

// One time codes for login verification and password flows, keyed by
// purpose and user ("login:42", "reset:a@b.c"). Codes are single use.
// TODO: store in Redis

type codeEntry struct {
	code    string
	expires time.Time
}

var (
	codeMutex sync.Mutex
	codeCache = make(map[string]codeEntry)
)

const codeTTL = 10 * time.Minute

func storeCode(key string, code string) {
	codeMutex.Lock()
	defer codeMutex.Unlock()
	codeCache[key] = codeEntry{code: code, expires: time.Now().Add(codeTTL)}
}

// checkCode consumes the code on success so it cannot be replayed.
func checkCode(key string, code string) bool {
	codeMutex.Lock()
	defer codeMutex.Unlock()

	entry, ok := codeCache[key]
	if !ok || code == "" {
		return false
	}
	if time.Now().After(entry.expires) {
		delete(codeCache, key)
		return false
	}
	if entry.code != code {
		return false
	}
	delete(codeCache, key)
	return true
}

func startCodeCleanup(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			codeMutex.Lock()
			now := time.Now()
			for key, entry := range codeCache {
				if now.After(entry.expires) {
					delete(codeCache, key)
				}
			}
			codeMutex.Unlock()
		}
	}()
}
