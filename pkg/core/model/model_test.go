package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type BlogPost struct{}

type Category struct{}

type legacyAccount struct{}

func (legacyAccount) TableName() string { return "tbl_accounts" }
func (legacyAccount) KeyName() string   { return "account_no" }

func TestTableName(t *testing.T) {
	tests := []struct {
		model    any
		expected string
	}{
		{&BlogPost{}, "blog_posts"},
		{Category{}, "categories"},
		{legacyAccount{}, "tbl_accounts"},
	}

	for _, tt := range tests {
		t.Run(TypeName(tt.model), func(t *testing.T) {
			assert.Equal(t, tt.expected, TableName(tt.model))
		})
	}
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "id", KeyName(&BlogPost{}))
	assert.Equal(t, "account_no", KeyName(legacyAccount{}))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "BlogPost", TypeName(&BlogPost{}))
	assert.Equal(t, "Category", TypeName(Category{}))
}

func TestIsConventionMethod(t *testing.T) {
	assert.True(t, IsConventionMethod("TableName"))
	assert.True(t, IsConventionMethod("KeyName"))
	assert.False(t, IsConventionMethod("Posts"))
}
