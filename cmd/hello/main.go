// Package main serves a greeting on GET / and accepts multipart uploads on
// POST /save.
package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/FauxFaux/horsehttp/pkg/horsehttp"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	config := horsehttp.DefaultConfig()
	config.Logger = logger
	if addr := os.Getenv("HELLO_ADDR"); addr != "" {
		config.Addr = addr
	}

	server := horsehttp.New(config)
	handler := &horsehttp.MethodHandler{
		Get:  doGet,
		Post: doPost,
	}

	if err := server.ListenAndServe(handler); err != nil {
		logger.Fatalf("server failed to start: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down")
}

func doGet(c *horsehttp.Client) error {
	switch c.Path() {
	case "/":
		host, port, err := net.SplitHostPort(c.Addr().String())
		if err != nil {
			return err
		}
		return c.WriteString(fmt.Sprintf("hello %s on port %s\n", host, port))
	default:
		return notFound(c)
	}
}

func doPost(c *horsehttp.Client) error {
	if c.Path() != "/save" {
		return notFound(c)
	}

	body, err := c.BodyParser()
	if err != nil {
		return err
	}

	if body.Form != nil {
		return body.Form.ForEach(func(f *horsehttp.FormField) error {
			ct, _ := f.ContentType()
			log.Printf("form field %q of type %q", f.Name(), ct)
			if name, ok := f.Filename(); ok {
				log.Printf(" - file the client names %q", name)
				return nil
			}
			value, err := io.ReadAll(f)
			if err != nil {
				return err
			}
			log.Printf(" - value: %q", value)
			return nil
		})
	}

	raw, err := io.ReadAll(body.Reader)
	if err != nil {
		return err
	}
	return c.WriteString(fmt.Sprintf("hello %q\n", raw))
}

func notFound(c *horsehttp.Client) error {
	if err := c.SetResponse(404, "Not Found"); err != nil {
		return err
	}
	return c.WriteString(fmt.Sprintf("I don't recognise the url %s\n", c.Path()))
}
