package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/types"
)

var errBadRequest = errs.InvalidArgumentError("bad request")

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

func parsePageArgs(q url.Values) (types.PageArgs, error) {
	var pageArgs types.PageArgs

	if q.Has("first") {
		first, err := strconv.ParseUint(q.Get("first"), 10, 64)
		if err != nil {
			return pageArgs, errs.InvalidArgumentError("invalid first page arg")
		}
		v := uint(first)
		pageArgs.First = &v
	}

	if q.Has("after") {
		v := q.Get("after")
		pageArgs.After = &v
	}

	return pageArgs, nil
}

func parseListEvents(q url.Values) (types.ListEvents, error) {
	var in types.ListEvents

	if q.Has("category") {
		v := types.EventCategory(q.Get("category"))
		in.Category = &v
	}
	if q.Has("date") {
		v := q.Get("date")
		in.Date = &v
	}
	if q.Has("max_distance_km") {
		v, err := strconv.ParseFloat(q.Get("max_distance_km"), 64)
		if err != nil {
			return in, errs.InvalidArgumentError("invalid max distance")
		}
		in.MaxDistanceKM = &v
	}
	if q.Has("sort") {
		v := types.EventSort(q.Get("sort"))
		in.Sort = &v
	}

	lat, lon, err := parsePosition(q)
	if err != nil {
		return in, err
	}
	in.Latitude = lat
	in.Longitude = lon

	return in, nil
}

func parsePosition(q url.Values) (*float64, *float64, error) {
	if !q.Has("latitude") && !q.Has("longitude") {
		return nil, nil, nil
	}
	if !q.Has("latitude") || !q.Has("longitude") {
		return nil, nil, errs.InvalidArgumentError("latitude and longitude go together")
	}

	lat, err := strconv.ParseFloat(q.Get("latitude"), 64)
	if err != nil {
		return nil, nil, errs.InvalidArgumentError("invalid latitude")
	}
	lon, err := strconv.ParseFloat(q.Get("longitude"), 64)
	if err != nil {
		return nil, nil, errs.InvalidArgumentError("invalid longitude")
	}
	return &lat, &lon, nil
}

// flusher unwraps the response writer for streaming endpoints.
func flusher(w http.ResponseWriter) (http.Flusher, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming unsupported")
	}
	return f, nil
}
