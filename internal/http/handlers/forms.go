package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type searchForm struct {
	Term  string `schema:"q"`
	Field string `schema:"field"`
}

type filterForm struct {
	Type      string `schema:"type"`
	Brand     string `schema:"brand"`
	MinRating string `schema:"minRating"`
	Sort      string `schema:"sort"`
}

type selectForm struct {
	ID string `schema:"id"`
}

type ratingForm struct {
	Stars string `schema:"stars"`
}

type commentForm struct {
	Comment string `schema:"comment"`
	// Key and Shift are sent by the keydown handler; a button submit leaves them empty.
	Key   string `schema:"key"`
	Shift string `schema:"shift"`
}

// listQuery is the stateless variant of the page controls for the JSON API.
type listQuery struct {
	Term      string `schema:"q"`
	Field     string `schema:"field"`
	Type      string `schema:"type"`
	Brand     string `schema:"brand"`
	MinRating string `schema:"minRating"`
	Sort      string `schema:"sort"`
}

func formValues(c *fiber.Ctx) url.Values {
	v := url.Values{}
	c.Request().PostArgs().VisitAll(func(k, val []byte) { v.Add(string(k), string(val)) })
	return v
}

func queryValues(c *fiber.Ctx) url.Values {
	v := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, val []byte) { v.Add(string(k), string(val)) })
	return v
}

func decodeForm(c *fiber.Ctx, dst any) error {
	return decoder.Decode(dst, formValues(c))
}

// minRating reads the select value; anything unparsable means no filter.
func minRating(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
