package controllers

import (
	"net/http"
	"sync"
	"time"

	"sakuranet-billing/logger"
	"sakuranet-billing/pterodactyl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The nest/egg tree changes only when an operator installs eggs, so a
// short cache keeps storefront page loads off the panel.
var eggTree = struct {
	sync.Mutex
	nests   []pterodactyl.Nest
	fetched time.Time
}{}

const eggTreeTTL = time.Hour

func EggTree(c *gin.Context) {
	eggTree.Lock()
	defer eggTree.Unlock()

	if eggTree.nests == nil || time.Since(eggTree.fetched) > eggTreeTTL {
		nests, err := Panel.ListNests()
		if err != nil {
			logger.Error("list nests", zap.Error(err))
			if eggTree.nests == nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch game cores"})
				return
			}
			// serve the stale copy
		} else {
			eggTree.nests = nests
			eggTree.fetched = time.Now()
		}
	}

	c.JSON(http.StatusOK, eggTree.nests)
}
