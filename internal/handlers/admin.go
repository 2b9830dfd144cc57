package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	reaper *worker.Reaper
}

func NewAdminHandler(reaper *worker.Reaper) *AdminHandler {
	return &AdminHandler{reaper: reaper}
}

// SweepNow triggers one reaper sweep outside the timer.
// @Summary 手动触发过期资源回收
// @Description 立即执行一轮回收扫描。扫描是幂等的，与定时扫描并存也安全。
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "回收的链接数"
// @Router /api/admin/reaper/sweep [post]
func (h *AdminHandler) SweepNow(c *gin.Context) {
	reclaimed, err := h.reaper.Sweep(c.Request.Context())
	if err != nil {
		logger.Error("SweepNow: 回收扫描失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, "回收扫描失败")
		return
	}

	xerr.Success(c, http.StatusOK, "回收扫描完成", gin.H{"reclaimed_links": reclaimed})
}
