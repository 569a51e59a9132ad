package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finwatch/ratecrawl/crawler"
	"github.com/finwatch/ratecrawl/models"
)

// Crawl returns a handler for POST /api/v1/crawl.
//
// Every request field is optional; an empty body runs the default search.
// The crawler owns error conversion, so the handler only maps the
// envelope onto the HTTP response.
func Crawl(cr *crawler.Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, models.ErrorBody{
				Error:   models.ErrCodeInvalidInput,
				Message: err.Error(),
			})
			return
		}

		resp := cr.Run(c.Request.Context(), req)
		if resp.Err != nil {
			c.JSON(resp.StatusCode, resp.Err)
			return
		}
		c.JSON(resp.StatusCode, resp.Result)
	}
}
