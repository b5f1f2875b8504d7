package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/shared/transport"
	"WarSim/internal/war/app"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/interfaces/handler/http/dto"
	"WarSim/modules/kit/errx"

	"github.com/gin-gonic/gin"
)

// HttpHandler 是给运维看的只读视图，外加一个手动落库入口。
type HttpHandler struct {
	svc *app.Service
}

func NewHttpHandler(svc *app.Service) *HttpHandler {
	return &HttpHandler{svc: svc}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	v1 := group.Group("/v1")

	scope := v1.Group("/scopes/:scope")
	scope.GET("/leaderboard", h.Leaderboard)
	scope.GET("/nations/:player", h.Nation)
	scope.GET("/nations/:player/battles", h.Battles)
	scope.GET("/nations/:player/capital", h.Capital)

	v1.GET("/alliances", h.Alliances)
	v1.GET("/alliances/:name", h.Alliance)
	v1.GET("/catalog/units", h.Units)

	v1.POST("/admin/persist", h.Persist)
}

func (h *HttpHandler) Leaderboard(c *gin.Context) {
	scope, ok := h.int64Param(c, "scope")
	if !ok {
		return
	}
	limit, ok := h.limitQuery(c)
	if !ok {
		return
	}
	h.ok(c, h.svc.Leaderboard(c.Request.Context(), scope, limit))
}

func (h *HttpHandler) Nation(c *gin.Context) {
	key, ok := h.keyParams(c)
	if !ok {
		return
	}
	view, err := h.svc.Status(c.Request.Context(), key)
	if err != nil {
		h.error(c.Request.Context(), c, err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Battles(c *gin.Context) {
	key, ok := h.keyParams(c)
	if !ok {
		return
	}
	limit, ok := h.limitQuery(c)
	if !ok {
		return
	}
	h.ok(c, h.svc.BattleHistory(c.Request.Context(), key, limit))
}

func (h *HttpHandler) Capital(c *gin.Context) {
	key, ok := h.keyParams(c)
	if !ok {
		return
	}
	h.ok(c, h.svc.CapitalView(c.Request.Context(), key))
}

func (h *HttpHandler) Alliances(c *gin.Context) {
	h.ok(c, h.svc.Alliances(c.Request.Context()))
}

func (h *HttpHandler) Alliance(c *gin.Context) {
	view, err := h.svc.AllianceInfo(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.error(c.Request.Context(), c, err)
		return
	}
	h.ok(c, view)
}

// Units 列出兵种；?category= 只看一个分类（按价格升序）。
func (h *HttpHandler) Units(c *gin.Context) {
	cat := h.svc.Catalog()
	var units []catalog.Unit
	if category := c.Query("category"); category != "" {
		units = cat.UnitsByCategory(catalog.Category(category))
	} else {
		units = cat.Units()
	}
	h.ok(c, dto.UnitsResp{Total: len(units), Units: units})
}

func (h *HttpHandler) Persist(c *gin.Context) {
	if err := h.svc.Persist(c.Request.Context()); err != nil {
		h.error(c.Request.Context(), c, err)
		return
	}
	h.ok(c, dto.PersistResp{Persisted: true})
}

func (h *HttpHandler) keyParams(c *gin.Context) (entity.Key, bool) {
	scope, ok := h.int64Param(c, "scope")
	if !ok {
		return entity.Key{}, false
	}
	player, ok := h.int64Param(c, "player")
	if !ok {
		return entity.Key{}, false
	}
	return entity.Key{Scope: scope, Player: player}, true
}

func (h *HttpHandler) int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		h.fail(c, transport.InvalidParam, "参数有误: "+name)
		return 0, false
	}
	return v, true
}

func (h *HttpHandler) limitQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 || limit > 1000 {
		h.fail(c, transport.InvalidParam, "参数有误: limit")
		return 0, false
	}
	return limit, true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(transport.BizCode(code).HTTPStatus(), dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	if reason := errx.ReasonOf(err); reason != "" {
		transport.SetErrorReason(ctx, reason)
	}
	code := transport.BizCodeFromError(err)
	msg := "系统繁忙，请稍后重试"
	var e *errx.Error
	if code != transport.SystemError && errors.As(err, &e) {
		msg = e.Msg()
		if reason := errx.ReasonOf(err); reason != "" {
			msg += ": " + reason
		}
	}
	h.fail(c, int(code), msg)
}
