package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryParser collects malformed query parameters instead of failing on the first one
type queryParser struct {
	c      *gin.Context
	errors map[string]string
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c, errors: map[string]string{}}
}

func (q *queryParser) Int(key string) int {
	v := q.c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errors[key] = "must be an integer"
		return 0
	}
	return n
}

func (q *queryParser) Float(key string) *float64 {
	v := q.c.Query(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		q.errors[key] = "must be a number"
		return nil
	}
	return &f
}

func (q *queryParser) Bool(key string) *bool {
	v := q.c.Query(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.errors[key] = "must be true or false"
		return nil
	}
	return &b
}

func (q *queryParser) Valid() bool { return len(q.errors) == 0 }
