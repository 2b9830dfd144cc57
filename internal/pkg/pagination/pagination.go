package pagination

import (
	"strconv"

	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
)

// 发送/接收两个列表共用的分页约定：
// page 从 1 开始，offset = (page-1)*limit，结果按 created_at 倒序，
// total 统计完整联接的行数，与当前页无关
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Params 承载经过校验的分页参数
type Params struct {
	Page  int
	Limit int
}

// FromQuery 解析查询串中的 page/limit，空值使用默认值
// 解析结果必须再经 Validate 校验后才能使用
func FromQuery(pageStr, limitStr string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return p, xerr.ErrInvalidPage
		}
		p.Page = page
	}
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return p, xerr.ErrInvalidPageSize
		}
		p.Limit = limit
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate 拒绝非法的分页参数
// page=0 会让 offset 公式下溢，必须拒绝而不是悄悄钳制
func (p Params) Validate() error {
	if p.Page < 1 {
		return xerr.ErrInvalidPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return xerr.ErrInvalidPageSize
	}
	return nil
}

// Offset 计算 SQL OFFSET，调用前必须已通过 Validate
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}
