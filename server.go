package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/chazu/facesvg/pkg/config"
	"github.com/chazu/facesvg/pkg/store"
)

// document is one named layout session served over HTTP.
type document struct {
	mu  sync.Mutex
	app *App
}

// Server keeps one App per document. Requests for the same document are
// serialized; different documents proceed independently.
type Server struct {
	cfg config.Config
	db  *store.Store // optional

	mu   sync.Mutex
	docs map[string]*document
}

// NewServer returns a server. db may be nil, in which case documents live
// only in memory.
func NewServer(cfg config.Config, db *store.Store) *Server {
	return &Server{cfg: cfg, db: db, docs: make(map[string]*document)}
}

// doc returns the named document, restoring it from the store on first use.
func (s *Server) doc(ctx context.Context, name string) (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.docs[name]; ok {
		return d, nil
	}
	d := &document{app: NewApp(s.cfg, name)}
	if s.db != nil {
		sess, err := s.db.Load(ctx, name)
		switch {
		case err == nil:
			d.app.Restore(sess)
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	s.docs[name] = d
	return d, nil
}

// save persists a document when a store is configured.
func (s *Server) save(ctx context.Context, name string, d *document) error {
	if s.db == nil {
		return nil
	}
	return s.db.Save(ctx, d.app.Session(name))
}

// Routes builds the fiber app.
func (s *Server) Routes() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		AppName:      "facesvg",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Post("/documents/:doc/layout", s.handleLayout)
	app.Get("/documents/:doc/svg", s.handleSVG)
	app.Get("/documents/:doc/png", s.handlePNG)
	app.Post("/documents/:doc/reset", s.handleReset)
	return app
}

func (s *Server) handleLayout(c fiber.Ctx) error {
	ctx := context.Background()
	name := c.Params("doc")
	d, err := s.doc(ctx, name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	result := d.app.Layout(string(c.Body()))
	if !result.OK() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
	if err := s.save(ctx, name, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

func (s *Server) handleSVG(c fiber.Ctx) error {
	d, err := s.doc(context.Background(), c.Params("doc"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	if err := d.app.Write(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (s *Server) handlePNG(c fiber.Ctx) error {
	d, err := s.doc(context.Background(), c.Params("doc"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	if err := d.app.WritePNG(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) handleReset(c fiber.Ctx) error {
	ctx := context.Background()
	name := c.Params("doc")
	d, err := s.doc(ctx, name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.app.Reset()
	if s.db != nil {
		if err := s.db.Delete(ctx, name); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"document": name, "reset": true})
}

// describe is used in the startup log line.
func (s *Server) describe() string {
	if s.db == nil {
		return "in-memory documents"
	}
	return "persistent documents"
}

