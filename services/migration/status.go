package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/utils"
)

// startStatusServer exposes run progress while the batch executes. It is the
// live counterpart of the end-of-run report: /report returns the outcomes
// recorded so far.
func startStatusServer(port string, report *Report) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Migration service is healthy", nil)
	})

	router.GET("/report", func(c *gin.Context) {
		utils.OKResponse(c, "Migration report", report.Snapshot())
	})

	go func() {
		logrus.Infof("status server listening on port %s", port)
		if err := router.Run(":" + port); err != nil {
			logrus.WithError(err).Error("status server stopped")
		}
	}()
}
