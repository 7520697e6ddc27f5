package postservice

import (
	"regexp"

	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/content"
)

var SlugRX = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be at most 200 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
	v.Check(v.Matches(slug, SlugRX), "slug", "must be lowercase letters, digits and single hyphens")
}

func validateContent(v *common.Validator, tree *content.Node) {
	if tree == nil {
		v.AddError("content", "must be provided")
		return
	}
	if err := content.Validate(tree); err != nil {
		v.AddError("content", err.Error())
	}
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
