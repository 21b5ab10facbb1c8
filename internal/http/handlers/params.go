package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	return positiveID(ctx, name, ctx.Param(name))
}

func queryID(ctx *gin.Context, name string) (int64, bool) {
	return positiveID(ctx, name, ctx.Query(name))
}

func positiveID(ctx *gin.Context, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid "+name, gin.H{"fields": []FieldError{{
			Field:   name,
			Rule:    "min",
			Param:   "1",
			Message: "must be a positive integer",
		}}})
		return 0, false
	}
	return id, true
}
