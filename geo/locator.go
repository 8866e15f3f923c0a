package geo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"pg-recommender/models"
	"pg-recommender/utils"
)

// Locator obtains the device position. Denial, an unsupported platform or a
// timeout are normal outcomes and are reported as ok=false, never as errors.
type Locator interface {
	Locate(ctx context.Context) (coords models.Coordinates, ok bool)
}

// BrowserLocator asks a headless Chrome for navigator.geolocation.
type BrowserLocator struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewBrowserLocator creates a locator. An empty chromeBin is resolved from
// CHROME_BIN, PATH and the usual install locations.
func NewBrowserLocator(chromeBin string, timeout time.Duration, logger *utils.Logger) *BrowserLocator {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &BrowserLocator{chromeBin: chromeBin, timeout: timeout, logger: logger}
}

// position is what the page script resolves to.
type position struct {
	OK    bool    `json:"ok"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Error string  `json:"error"`
}

const geolocationScript = `new Promise((resolve) => {
	if (!navigator.geolocation) {
		resolve({ok: false, error: "geolocation unsupported"});
		return;
	}
	navigator.geolocation.getCurrentPosition(
		(p) => resolve({ok: true, lat: p.coords.latitude, lon: p.coords.longitude}),
		(e) => resolve({ok: false, error: e.message || ("code " + e.code)}),
		{timeout: %d, maximumAge: 60000}
	);
})`

// Locate launches the browser, grants the geolocation permission to a
// loopback page and waits for the position.
func (b *BrowserLocator) Locate(ctx context.Context) (models.Coordinates, bool) {
	origin, stop, err := serveBlankPage()
	if err != nil {
		b.logger.Warn("[geo] Location not detected: %v", err)
		return models.Coordinates{}, false
	}
	defer stop()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.chromeBin != "" {
		b.logger.Debug("[geo] Using browser binary: %s", b.chromeBin)
		opts = append(opts, chromedp.ExecPath(b.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// The script timeout fires first so the page reports it; the context
	// bounds a browser that never answers.
	runCtx, cancelRun := context.WithTimeout(browserCtx, b.timeout+5*time.Second)
	defer cancelRun()

	var pos position
	err = chromedp.Run(runCtx,
		browser.GrantPermissions([]browser.PermissionType{browser.PermissionTypeGeolocation}).WithOrigin(origin),
		chromedp.Navigate(origin+"/"),
		chromedp.Evaluate(fmt.Sprintf(geolocationScript, b.timeout.Milliseconds()), &pos,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
	)
	if err != nil {
		b.logger.Warn("[geo] Location not detected: browser failed: %v", err)
		return models.Coordinates{}, false
	}

	coords, ok := decodePosition(pos)
	if !ok {
		b.logger.Warn("[geo] Location not detected: %s", pos.Error)
		return models.Coordinates{}, false
	}
	b.logger.Info("[geo] Device located at (%.4f, %.4f)", coords.Latitude, coords.Longitude)
	return coords, true
}

func decodePosition(p position) (models.Coordinates, bool) {
	if !p.OK {
		return models.Coordinates{}, false
	}
	c := models.Coordinates{Latitude: p.Lat, Longitude: p.Lon}
	if !c.Valid() || (c.Latitude == 0 && c.Longitude == 0) {
		return models.Coordinates{}, false
	}
	return c, true
}

// serveBlankPage serves an empty page on loopback. Browsers treat loopback
// origins as secure contexts, which geolocation requires.
func serveBlankPage() (origin string, stop func(), err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen on loopback: %w", err)
	}
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<!doctype html><title>locate</title>"))
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()

	return "http://" + ln.Addr().String(), func() { _ = srv.Close() }, nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
