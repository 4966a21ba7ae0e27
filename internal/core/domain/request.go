package domain

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodedImage is the base64 text form of raw image bytes.
type EncodedImage string

// Encode returns the transport form of data. Equal input always yields equal output.
func Encode(data []byte) EncodedImage {
	return EncodedImage(base64.StdEncoding.EncodeToString(data))
}

// Decode reverses Encode.
func (e EncodedImage) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(e))
}

// ResizeSettings is the target size as typed by the user.
type ResizeSettings struct {
	Width     string
	Height    string
	AutoScale bool
}

// ResizeRequest is what gets sent to the Resize Engine. A zero Width or Height means the
// engine keeps the aspect ratio for that side.
type ResizeRequest struct {
	Width     int
	Height    int
	AutoScale bool
	Quality   int
	Payloads  []EncodedImage
}

// DefaultMaxDimension caps a side when no limit is configured.
const DefaultMaxDimension = 10000

// Resolve turns the typed settings into numeric dimensions. Empty or non-numeric text
// counts as unset, numbers below one or above maxDimension are rejected, and at least one
// side must be set. Without auto-scale both sides are required. A maxDimension of zero or
// less falls back to DefaultMaxDimension.
func (s ResizeSettings) Resolve(maxDimension int) (width, height int, err error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	width, err = parseDimension(s.Width, maxDimension)
	if err != nil {
		return 0, 0, err
	}

	height, err = parseDimension(s.Height, maxDimension)
	if err != nil {
		return 0, 0, err
	}

	if width == 0 && height == 0 {
		return 0, 0, &ValidationError{Err: ErrDimensionsUnset}
	}

	if !s.AutoScale && (width == 0 || height == 0) {
		return 0, 0, &ValidationError{Err: ErrBothDimensions}
	}

	return width, height, nil
}

func parseDimension(text string, maxDimension int) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, nil
	}

	if n < 1 {
		return 0, &ValidationError{Err: ErrNonPositiveDimension}
	}

	if n >= float64(maxDimension+1) {
		return 0, &ValidationError{Err: fmt.Errorf("%w: max %d", ErrDimensionTooLarge, maxDimension)}
	}

	return int(n), nil
}
