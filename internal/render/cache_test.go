package render

import (
	"sync"
	"testing"
)

func TestKeyOf(t *testing.T) {
	base := DefaultOptions()

	if keyOf(base) != keyOf(DefaultOptions()) {
		t.Error("equal options should share a key")
	}
	if keyOf(base) == keyOf(base.WithWidth(100)) {
		t.Error("width should change the key")
	}
	if keyOf(base) == keyOf(base.WithStyle(ThemeLight)) {
		t.Error("style should change the key")
	}
	if keyOf(base) != keyOf(base.WithHTMLPolicy(HTMLRaw)) {
		t.Error("html policy should not change the key")
	}
}

func TestAcquireRelease(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	r1, err := acquire(opts)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release(opts, r1)

	r2, err := acquire(opts.WithWidth(100))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release(opts.WithWidth(100), r2)

	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() after clear = %d, want 0", CacheSize())
	}
}

func TestAcquireConcurrent(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := acquire(opts)
			if err != nil {
				errs <- err
				return
			}
			defer release(opts, r)
			if _, err := r.Render("# Test"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}
}

func TestCreateRenderer(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			r, err := createRenderer(DefaultOptions().WithStyle(name))
			if err != nil {
				t.Fatalf("createRenderer: %v", err)
			}
			out, err := r.Render("# Test")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if out == "" {
				t.Error("expected output")
			}
		})
	}

	if _, err := createRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for a missing style file")
	}
}
