package model

// AudioProperties is read-only and, per the file handle's contract,
// computed on first access and cached for the handle's lifetime.
type AudioProperties struct {
	LengthSeconds uint32
	BitrateKbps   uint32
	SampleRateHz  uint32
	Channels      uint8
	BitsPerSample uint8
	Codec         string
	Container     string
	IsLossless    bool
}
