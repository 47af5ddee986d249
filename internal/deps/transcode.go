package deps

// TranscodeRequirements lists the binaries the drapto library executes.
func TranscodeRequirements() []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Runs the drapto encode",
		},
		{
			Name:        "FFprobe",
			Command:     "ffprobe",
			Description: "Inspects sources before encoding",
		},
	}
}
