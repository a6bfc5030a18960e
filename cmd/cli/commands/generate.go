package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yasha-ai/gemini-worker/internal/jobs"
	"github.com/yasha-ai/gemini-worker/internal/types"
)

func init() {
	textCmd.Flags().StringP("prompt", "p", "", "Text prompt")
	_ = textCmd.MarkFlagRequired("prompt")
	textCmd.Flags().String(flagModel, "", "Model name")
	textCmd.Flags().Int("max-tokens", 0, "Max output tokens")
	textCmd.Flags().Float64("temperature", 0, "Sampling temperature (0-2)")
	textCmd.Flags().StringP(flagOutput, "o", "output.txt", "Output file path, - for stdout")

	imageCmd.Flags().StringP("prompt", "p", "", "Image prompt")
	_ = imageCmd.MarkFlagRequired("prompt")
	imageCmd.Flags().String(flagModel, "", "Model name")
	imageCmd.Flags().String("reference", "", "Reference image URL")
	imageCmd.Flags().StringP(flagOutput, "o", "output.png", "Output file path")

	voiceCmd.Flags().String("text", "", "Text to synthesize")
	_ = voiceCmd.MarkFlagRequired("text")
	voiceCmd.Flags().String("voice", "", "Voice name (Fenrir, Kore, Charon, Aoede)")
	voiceCmd.Flags().String(flagModel, "", "TTS model name")
	voiceCmd.Flags().StringP(flagOutput, "o", "output.wav", "Output WAV file")

	ideasCmd.Flags().String("topic", "", "Topic or theme")
	_ = ideasCmd.MarkFlagRequired("topic")
	ideasCmd.Flags().IntP("count", "n", 0, "Number of ideas")
	ideasCmd.Flags().String(flagModel, "", "Model name")
	ideasCmd.Flags().StringP(flagOutput, "o", "-", "Output file path, - for stdout")

	playgroundCmd.Flags().String("section", "", "Lesson section to process")
	_ = playgroundCmd.MarkFlagRequired("section")
	playgroundCmd.Flags().Int("limit", 0, "Max lessons to process, 0 for all")
	playgroundCmd.Flags().String(flagModel, "", "Model name")
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Generate text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := jobs.Parameters{}
		setString(cmd, params, "prompt", "prompt")
		setString(cmd, params, flagModel, "model")
		setInt(cmd, params, "max-tokens", "max_tokens")
		setFloat(cmd, params, "temperature", "temperature")

		result, err := jobRunner.Run(cmd.Context(), types.JobKindText, params, timeoutFlag)
		if err != nil {
			return err
		}

		text := result.(types.TextResult)
		output, _ := cmd.Flags().GetString(flagOutput)
		return writeOutput(output, []byte(text.Text))
	},
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Generate an image",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := jobs.Parameters{}
		setString(cmd, params, "prompt", "prompt")
		setString(cmd, params, flagModel, "model")
		setString(cmd, params, "reference", "reference")

		result, err := jobRunner.Run(cmd.Context(), types.JobKindImage, params, timeoutFlag)
		if err != nil {
			return err
		}

		image := result.(types.ImageResult)
		fmt.Printf("Image generated (%s)\n", image.MIME)
		output, _ := cmd.Flags().GetString(flagOutput)
		return writeOutput(output, image.Content)
	},
}

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Synthesize speech",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := jobs.Parameters{}
		setString(cmd, params, "text", "text")
		setString(cmd, params, "voice", "voice")
		setString(cmd, params, flagModel, "model")

		result, err := jobRunner.Run(cmd.Context(), types.JobKindVoice, params, timeoutFlag)
		if err != nil {
			return err
		}

		audio := result.(types.AudioResult)
		fmt.Printf("Audio generated: %d Hz, %d-bit\n", audio.Format.Rate, audio.Format.Bits)
		output, _ := cmd.Flags().GetString(flagOutput)
		return writeOutput(output, audio.WAV())
	},
}

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Generate content ideas",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := jobs.Parameters{}
		setString(cmd, params, "topic", "topic")
		setInt(cmd, params, "count", "count")
		setString(cmd, params, flagModel, "model")

		result, err := jobRunner.Run(cmd.Context(), types.JobKindIdeas, params, timeoutFlag)
		if err != nil {
			return err
		}

		ideas := result.(types.IdeasResult)
		prettyJSON, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}

		output, _ := cmd.Flags().GetString(flagOutput)
		return writeOutput(output, append(prettyJSON, '\n'))
	},
}

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Generate lesson playgrounds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := jobs.Parameters{}
		setString(cmd, params, "section", "section")
		setInt(cmd, params, "limit", "limit")
		setString(cmd, params, flagModel, "model")

		result, err := jobRunner.Run(cmd.Context(), types.JobKindPlayground, params, timeoutFlag)
		if err != nil {
			return err
		}

		playground := result.(types.PlaygroundResult)
		fmt.Printf("Committed %d files:\n", len(playground.Files))
		for _, file := range playground.Files {
			fmt.Println("  " + file)
		}
		return nil
	},
}

// setString copies a string flag into params when the user set it.
func setString(cmd *cobra.Command, params jobs.Parameters, flag, param string) {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		params[param] = value
	}
}

func setInt(cmd *cobra.Command, params jobs.Parameters, flag, param string) {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetInt(flag)
		params[param] = strconv.Itoa(value)
	}
}

func setFloat(cmd *cobra.Command, params jobs.Parameters, flag, param string) {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetFloat64(flag)
		params[param] = strconv.FormatFloat(value, 'f', -1, 64)
	}
}
