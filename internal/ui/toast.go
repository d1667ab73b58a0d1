package ui

import (
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

// ToastType is the severity of a toast.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastError
)

// Toast is a one-line notice drawn over the bottom of the list. Only the
// frame goroutine touches it.
type Toast struct {
	Message   string
	Type      ToastType
	ExpiresAt time.Time
}

// Errors stay up longer since they usually explain why nothing launched.
var toastDurations = [...]time.Duration{
	ToastInfo:  2 * time.Second,
	ToastError: 5 * time.Second,
}

// ShowToast replaces any current toast.
func (r *Renderer) ShowToast(message string, typ ToastType) {
	r.toast = Toast{Message: message, Type: typ, ExpiresAt: r.now().Add(toastDurations[typ])}
}

func (r *Renderer) ShowError(message string) { r.ShowToast(message, ToastError) }

func (r *Renderer) ShowInfo(message string) { r.ShowToast(message, ToastInfo) }

// toastVisible drops an expired toast and reports whether one remains.
func (r *Renderer) toastVisible() bool {
	if r.toast.Message == "" {
		return false
	}
	if !r.now().Before(r.toast.ExpiresAt) {
		r.toast = Toast{}
		return false
	}
	return true
}

// dismissToast hides the toast once the user edits the query.
func (r *Renderer) dismissToast() { r.toast = Toast{} }

func (r *Renderer) layoutToast(gtx layout.Context) layout.Dimensions {
	if !r.toastVisible() {
		return layout.Dimensions{}
	}
	gtx.Execute(op.InvalidateCmd{At: r.toast.ExpiresAt})

	bg := r.palette.InputBg
	if r.toast.Type == ToastError {
		bg = colToastErrorBg
	}

	gtx.Constraints.Min = gtx.Constraints.Max
	return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		macro := op.Record(gtx.Ops)
		dims := layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			size := float32(gtx.Dp(unit.Dp(r.cfg.InputFontSize() * 0.75)))
			lbl := r.label(gtx, size, r.toast.Message, colToastText)
			lbl.MaxLines = 2
			lbl.LineHeight = 0
			return lbl.Layout(gtx)
		})
		call := macro.Stop()

		paint.FillShape(gtx.Ops, bg, clip.Rect{Max: dims.Size}.Op())
		call.Add(gtx.Ops)
		return dims
	})
}
