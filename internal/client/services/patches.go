package services

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
)

func asPost(v any) (models.Post, error) {
	p, ok := v.(models.Post)
	if !ok {
		return models.Post{}, fmt.Errorf("post patch applied to %T", v)
	}
	return p.Clone(), nil
}

func asDrafts(v any) ([]models.Draft, error) {
	list, ok := v.([]models.Draft)
	if !ok {
		return nil, fmt.Errorf("draft list patch applied to %T", v)
	}
	return slices.Clone(list), nil
}

// toggleClap flips subject's clap on a post.
type toggleClap struct {
	subject string
}

func (t toggleClap) Apply(cur any) (any, error) {
	p, err := asPost(cur)
	if err != nil {
		return nil, err
	}
	if i := slices.Index(p.Claps, t.subject); i >= 0 {
		p.Claps = slices.Delete(p.Claps, i, i+1)
		p.ClapCount--
		return p, nil
	}
	p.Claps = append(p.Claps, t.subject)
	p.ClapCount++
	return p, nil
}

// Inverse removes an added clap, or puts a removed one back where it was.
func (t toggleClap) Inverse(prior any) cache.Patch {
	p, ok := prior.(models.Post)
	if !ok {
		return t
	}
	if i := slices.Index(p.Claps, t.subject); i >= 0 {
		return insertClap{subject: t.subject, index: i}
	}
	return removeClap{subject: t.subject, nilWhenEmpty: p.Claps == nil}
}

type removeClap struct {
	subject      string
	nilWhenEmpty bool
}

func (r removeClap) Apply(cur any) (any, error) {
	p, err := asPost(cur)
	if err != nil {
		return nil, err
	}
	if i := slices.Index(p.Claps, r.subject); i >= 0 {
		p.Claps = slices.Delete(p.Claps, i, i+1)
		p.ClapCount--
	}
	if r.nilWhenEmpty && len(p.Claps) == 0 {
		p.Claps = nil
	}
	return p, nil
}

type insertClap struct {
	subject string
	index   int
}

func (c insertClap) Apply(cur any) (any, error) {
	p, err := asPost(cur)
	if err != nil {
		return nil, err
	}
	if p.HasClapped(c.subject) {
		return p, nil
	}
	p.Claps = slices.Insert(p.Claps, min(c.index, len(p.Claps)), c.subject)
	p.ClapCount++
	return p, nil
}

// appendComment adds a locally created comment to a post.
type appendComment struct {
	comment models.Comment
}

func (a appendComment) Apply(cur any) (any, error) {
	p, err := asPost(cur)
	if err != nil {
		return nil, err
	}
	p.Comments = append(p.Comments, a.comment)
	return p, nil
}

func (a appendComment) Inverse(prior any) cache.Patch {
	p, _ := prior.(models.Post)
	return removeComment{id: a.comment.ID, restoreUnknown: p.Comments == nil}
}

// removeComment drops a comment by id. restoreUnknown turns an emptied list
// back into "not reported by the server".
type removeComment struct {
	id             string
	restoreUnknown bool
}

func (r removeComment) Apply(cur any) (any, error) {
	p, err := asPost(cur)
	if err != nil {
		return nil, err
	}
	p.Comments = slices.DeleteFunc(p.Comments, func(c models.Comment) bool { return c.ID == r.id })
	if r.restoreUnknown && len(p.Comments) == 0 {
		p.Comments = nil
	}
	return p, nil
}

// removeDraft drops a draft from a materialized list. A draft that is not
// listed leaves the list unchanged.
type removeDraft struct {
	id string
}

func (r removeDraft) Apply(cur any) (any, error) {
	list, err := asDrafts(cur)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(list, func(d models.Draft) bool { return d.ID == r.id }), nil
}

func (r removeDraft) Inverse(prior any) cache.Patch {
	list, _ := prior.([]models.Draft)
	i := slices.IndexFunc(list, func(d models.Draft) bool { return d.ID == r.id })
	if i < 0 {
		return nil
	}
	return insertDraft{draft: list[i], index: i}
}

type insertDraft struct {
	draft models.Draft
	index int
}

func (ins insertDraft) Apply(cur any) (any, error) {
	list, err := asDrafts(cur)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(list, func(d models.Draft) bool { return d.ID == ins.draft.ID }) {
		return list, nil
	}
	return slices.Insert(list, min(ins.index, len(list)), ins.draft), nil
}
