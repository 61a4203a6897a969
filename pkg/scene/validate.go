package scene

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/magnet/pkg/anchor"
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/magnet"
)

var validate = newValidator()

// newValidator reports fields by their json names so paths match what users
// write in scene files.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the document and reports every invalid field at once.
// It checks struct tags first, then the element ids and the string syntax
// of sizes, margins, pulls and anchors.
func Validate(doc *Document) error {
	var verrs errors.ValidationErrors
	if err := validate.Struct(doc); err != nil {
		var fes validator.ValidationErrors
		if !stderrors.As(err, &fes) {
			return errors.Wrap(errors.ErrCodeInternal, err, "validate scene")
		}
		for _, fe := range fes {
			verrs = append(verrs, errors.FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: tagMessage(fe),
			})
		}
	}

	seen := make(map[string]int, len(doc.Elements))
	for i, el := range doc.Elements {
		path := fmt.Sprintf("elements[%d]", i)
		if el.ID == "" {
			continue
		}
		if err := errors.ValidateElementID(el.ID); err != nil {
			verrs = append(verrs, errors.FieldError{Field: path + ".id", Message: errors.UserMessage(err)})
		} else if prev, dup := seen[strings.ToLower(el.ID)]; dup {
			verrs = append(verrs, errors.FieldError{
				Field:   path + ".id",
				Message: fmt.Sprintf("duplicate id %q (first used by elements[%d])", el.ID, prev),
			})
		} else {
			seen[strings.ToLower(el.ID)] = i
		}
		verrs = append(verrs, validateSyntax(path, el)...)
	}
	return verrs.AsError()
}

func validateSyntax(path string, el Element) errors.ValidationErrors {
	var verrs errors.ValidationErrors
	check := func(field string, err error) {
		if err != nil {
			verrs = append(verrs, errors.FieldError{Field: path + "." + field, Message: errors.UserMessage(err)})
		}
	}

	switch el.KindOf() {
	case "view":
		if el.Width != "" {
			_, err := magnet.ParseSizeValue(el.Width)
			check("width", err)
		}
		if el.Height != "" {
			_, err := magnet.ParseSizeValue(el.Height)
			check("height", err)
		}
		if el.Margin != "" {
			_, err := magnet.ParseThickness(el.Margin)
			check("margin", err)
		}
		if el.CollapsedMargin != "" {
			_, err := magnet.ParseThickness(el.CollapsedMargin)
			check("collapsedMargin", err)
		}
		for edge, target := range el.Pulls {
			_, err := magnet.ParsePole(edge)
			check("pulls."+edge, err)
			_, err = magnet.ParsePullTarget(target)
			check("pulls."+edge, err)
		}
		for edge := range el.GoneMargins {
			if _, ok := el.Pulls[edge]; !ok {
				check("goneMargins."+edge, errors.New(errors.ErrCodeInvalidInput, "no pull on edge %q", edge))
			}
		}
		set, err := anchor.ParseSet(el.Anchors)
		check("anchors", err)
		if err == nil {
			for key := range el.Anchors {
				if edge := anchorEdge(key); edge != "" && hasPull(el.Pulls, edge) {
					check("anchors."+key, errors.New(errors.ErrCodeInvalidInput, "edge %q already has a pull", edge))
				}
			}
			check("anchors", anchor.Bind(magnet.NewView("check"), set))
		}
	case "guideline":
		if el.Axis == "" {
			check("axis", errors.New(errors.ErrCodeInvalidInput, "guideline needs an axis"))
		}
	case "barrier":
		if el.Side == "" {
			check("side", errors.New(errors.ErrCodeInvalidInput, "barrier needs a side"))
		} else {
			_, err := magnet.ParsePole(el.Side)
			check("side", err)
		}
		if el.Margin != "" {
			_, err := strconv.ParseFloat(strings.TrimSpace(el.Margin), 64)
			if err != nil {
				check("margin", errors.Wrap(errors.ErrCodeInvalidSyntax, err, "barrier margin %q", el.Margin))
			}
		}
	}
	return verrs
}

// anchorEdge returns the edge an anchor attribute such as "leftToRightOf"
// constrains.
func anchorEdge(key string) string {
	k := strings.ToLower(key)
	for _, edge := range []string{"left", "right", "top", "bottom"} {
		if strings.HasPrefix(k, edge+"to") {
			return edge
		}
	}
	return ""
}

func hasPull(pulls map[string]string, edge string) bool {
	for k := range pulls {
		if p, err := magnet.ParsePole(k); err == nil && strings.EqualFold(p.String(), edge) {
			return true
		}
	}
	return false
}

// fieldPath drops the root type from "Document.elements[0].content.width".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
