package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAllImages(t *testing.T) {
	post := Post{
		Images:    pq.StringArray{"https://cdn.example/u/1", "https://cdn.example/u/2"},
		ImageURLs: pq.StringArray{"https://img.example/a.jpg"},
	}

	assert.Equal(t, []string{
		"https://cdn.example/u/1",
		"https://cdn.example/u/2",
		"https://img.example/a.jpg",
	}, post.AllImages())

	empty := Post{}
	assert.Empty(t, empty.AllImages())
}

func TestAuthorURN(t *testing.T) {
	user := User{LinkedinID: "aBc123"}
	assert.Equal(t, "urn:li:person:aBc123", user.AuthorURN())
}
