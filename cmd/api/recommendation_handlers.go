package main

import (
	"net/http"
	"strconv"

	"shopflow/pkg/otel"
	"shopflow/pkg/recommend"
)

// recommendationsHandler suggests products from the caller's purchase
// history.
// @Summary Recommendations
// @Produce json
// @Param limit query int false "Max suggestions"
// @Success 200 {array} catalog.Product
// @Security ApiKeyAuth
// @Router /recommendations [get]
func recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "recommendationsHandler")
	defer span.End()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = recommend.DefaultLimit
	}
	out, err := recommender.ForUser(ctx, userID(ctx), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
