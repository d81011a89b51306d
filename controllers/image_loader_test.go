package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashrajoria/storefront/controllers"
)

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/images/ok.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestImageLoader_Loaded(t *testing.T) {
	srv := imageServer(t)
	l := controllers.NewImageLoader(srv.Client(), srv.URL, "/images/ok.png", fallbackImage)
	assert.True(t, l.Loading())

	assert.Equal(t, controllers.ImageLoaded, l.Load(context.Background()))
	assert.False(t, l.Loading())
	assert.Equal(t, srv.URL+"/images/ok.png", l.Src())
}

func TestImageLoader_ErrorShowsFallback(t *testing.T) {
	srv := imageServer(t)
	l := controllers.NewImageLoader(srv.Client(), srv.URL+"/", "images/missing.png", fallbackImage)

	assert.Equal(t, controllers.ImageErrored, l.Load(context.Background()))
	assert.False(t, l.Loading())
	assert.Equal(t, srv.URL+fallbackImage, l.Src())

	// settled: no retry, no flip back
	l.OnLoad()
	assert.Equal(t, controllers.ImageErrored, l.Load(context.Background()))
}

func TestImageLoader_EmptyPathStartsOnFallback(t *testing.T) {
	l := controllers.NewImageLoader(nil, "http://assets.local", "", fallbackImage)
	assert.Equal(t, controllers.ImageErrored, l.State())
	assert.Equal(t, "http://assets.local/images/no-image.png", l.Src())
}

func TestImageLoader_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	l := controllers.NewImageLoader(nil, url, "/images/ok.png", fallbackImage)
	assert.Equal(t, controllers.ImageErrored, l.Load(context.Background()))
}

func TestImageLoader_Events(t *testing.T) {
	l := controllers.NewImageLoader(nil, "http://assets.local", "https://cdn.example.com/a.png", fallbackImage)
	assert.Equal(t, "https://cdn.example.com/a.png", l.Src())
	l.OnLoad()
	l.OnError()
	assert.Equal(t, controllers.ImageLoaded, l.State())
	assert.Equal(t, "loaded", l.State().String())
}
