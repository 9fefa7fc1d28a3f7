package rekognition

import "errors"

var (
	ErrInvalidImage   = errors.New("invalid image for rekognition")
	ErrNoFaceDetected = errors.New("rekognition detected no face")
)
