package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/boxfit/catalog"
	"github.com/ByLCY/boxfit/config"
	"github.com/ByLCY/boxfit/measure"
)

func newMeasureCommand() *cobra.Command {
	var (
		src     string
		size    int
		backend string
	)
	cmd := &cobra.Command{
		Use:   "measure TEXT...",
		Short: "输出文本各行的像素宽度",
		Example: `  boxfit measure --font mplus-1c-medium.ttf "设置" "Options"
  boxfit measure --font embed:go-regular --size 24 $'Hello\nWorld'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := measure.New(measure.Options{Src: src, Size: size, Backend: backend})
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("已加载字体", "src", m.Source(), "backend", m.Backend())

			out := cmd.OutOrStdout()
			for _, text := range args {
				segments := catalog.Segments(text)
				widths := make([]string, len(segments))
				for i, seg := range segments {
					widths[i] = strconv.Itoa(m.Width(seg))
				}
				fmt.Fprintf(out, "%s\t%q\n", strings.Join(widths, ","), text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&src, "font", config.DefaultFontSrc, "字体：文件路径或 embed:<name>")
	cmd.Flags().IntVar(&size, "size", config.DefaultFontSize, "字号（px）")
	cmd.Flags().StringVar(&backend, "backend", measure.BackendAuto, "测量后端：auto、glyph-bounds、canvas")
	return cmd
}
