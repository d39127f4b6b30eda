package astispeak

import (
	"fmt"
	"strconv"
)

// Fixed windows synthesis script: reads the utterance from its input stream
const psScript = `Add-Type -AssemblyName System.Speech; $speak = New-Object System.Speech.Synthesis.SpeechSynthesizer; $speak.Speak([Console]::In.ReadToEnd())`

// command represents an external speech command ready to be spawned. payload, if
// any, is written to the process input stream which is then closed.
type command struct {
	args    []string
	name    string
	payload string
}

// buildSpeak builds the speech command of a profile
func (p profile) buildSpeak(text, voice string, speed float64) (c command) {
	// Init command
	c.name = p.binary

	// Add args
	switch p.platform {
	case PlatformLinux:
		// festival opens an interactive session, speech parameters go through the pipe
		c.args = append(c.args, "--pipe")
		if speed > 0 {
			c.payload += fmt.Sprintf("(Parameter.set 'Audio_Command \"aplay -q -c 1 -t raw -f s16 -r $(($SR*%d/100)) $FILE\") ", p.convertSpeed(speed))
		}
		if voice != "" {
			c.payload += fmt.Sprintf("(%s) ", voice)
		}
		c.payload += fmt.Sprintf("(SayText %q)", text)
	case PlatformWindows:
		// The synthesis script is fixed, voice and speed are not supported
		c.args = append(c.args, psScript)
		c.payload = text
	default:
		if voice != "" {
			c.args = append(c.args, "-v", voice)
		}
		c.args = append(c.args, text)
		if speed > 0 {
			c.args = append(c.args, "-r", strconv.Itoa(p.convertSpeed(speed)))
		}
	}
	return
}

// buildExport builds the file-export command of a profile
func (p profile) buildExport(text, voice string, speed float64, filename string) (c command) {
	c = p.buildSpeak(text, voice, speed)
	c.args = append(c.args, "-o", filename, "--data-format=LEF32@32000")
	return
}
