package rest

import (
	"net/http"

	"collectordao/core"
	"collectordao/handler/param"
	"collectordao/handler/render"
	"collectordao/handler/views"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

func handleJoin(memberz core.MemberService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Address string          `json:"address" valid:"required"`
			Payment decimal.Decimal `json:"payment"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if _, err := govalidator.ValidateStruct(params); err != nil {
			render.BadRequest(w, err)
			return
		}

		address, err := parseAddress(params.Address)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		member, err := memberz.Join(ctx, address, params.Payment)
		if err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"member": views.MemberView(member)})
	}
}

func handleMember(members core.MemberStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		address, err := parseAddress(param.String(r, "address"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		member, err := members.Find(ctx, address)
		if err != nil {
			fail(w, err)
			return
		}

		if !member.Joined() {
			fail(w, core.ErrNotMember)
			return
		}

		render.JSON(w, render.H{"member": views.MemberView(member)})
	}
}

func handleListMembers(members core.MemberStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Cursor int64 `json:"cursor"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		const limit = 50
		list, err := members.List(ctx, params.Cursor, limit)
		if err != nil {
			fail(w, err)
			return
		}

		var nextCursor int64
		if len(list) == limit {
			nextCursor = list[limit-1].ID
		}

		render.JSON(w, render.H{
			"members": views.MemberViews(list),
			"pagination": render.H{
				"next_cursor": nextCursor,
				"has_next":    nextCursor > 0,
			},
		})
	}
}
