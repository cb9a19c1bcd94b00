package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sakuranet-billing/pterodactyl"

	"github.com/gin-gonic/gin"
)

func TestEggTreeCaching(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"data":[{"object":"nest","attributes":{"id":1,"name":"Minecraft",
			"relationships":{"eggs":{"data":[{"object":"egg","attributes":{"id":5,"name":"Paper"}}]}}}}]}`))
	}))
	defer srv.Close()

	Panel = pterodactyl.New(srv.URL, "key")
	eggTree.Lock()
	eggTree.nests = nil
	eggTree.fetched = time.Time{}
	eggTree.Unlock()

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/eggs/tree", nil)
		EggTree(c)
		if w.Code != http.StatusOK {
			t.Fatal("Expected 200, got", w.Code)
		}
	}

	if hits != 1 {
		t.Error("Expected one upstream fetch inside the TTL, got", hits)
	}
}
