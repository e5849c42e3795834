// Package cli implements the rovcal command line tool for managing camera calibrations.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	configFlag     = "config"
	debugFlag      = "debug"
	cameraFlag     = "camera"
	inputFlag      = "input"
	outputFlag     = "output"
	maxRMSFlag     = "max-rms-error"
	namespaceValue = "calibration"
)

func cameraFlagDef() cli.Flag {
	return &cli.StringFlag{
		Name:     cameraFlag,
		Aliases:  []string{"n"},
		Usage:    "name of the calibrated camera (a or b)",
		Required: true,
	}
}

var app = &cli.App{
	Name:            "rovcal",
	Usage:           "manage ROV camera calibrations",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Value:   "rov.json",
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "import",
			Usage:     "validate a calibration result and store it",
			ArgsUsage: "<calibration.json>",
			Flags:     []cli.Flag{cameraFlagDef()},
			Action:    ImportCalibrationAction,
		},
		{
			Name:   "show",
			Usage:  "print a stored calibration",
			Flags:  []cli.Flag{cameraFlagDef()},
			Action: ShowCalibrationAction,
		},
		{
			Name:   "list",
			Usage:  "list the cameras with a stored calibration",
			Action: ListCalibrationsAction,
		},
		{
			Name:  "check",
			Usage: "report whether a stored calibration is good enough to use",
			Flags: []cli.Flag{
				cameraFlagDef(),
				&cli.Float64Flag{
					Name:  maxRMSFlag,
					Usage: "override the largest accepted reprojection error",
				},
			},
			Action: CheckCalibrationAction,
		},
		{
			Name:  "undistort",
			Usage: "undistort a camera's valid calibration images, or a single image",
			Flags: []cli.Flag{
				cameraFlagDef(),
				&cli.StringFlag{
					Name:  inputFlag,
					Usage: "undistort only this image `FILE`",
				},
				&cli.StringFlag{
					Name:  outputFlag,
					Usage: "write the single undistorted image to `FILE`",
				},
			},
			Action: UndistortAction,
		},
		{
			Name:   "delete",
			Usage:  "remove a stored calibration",
			Flags:  []cli.Flag{cameraFlagDef()},
			Action: DeleteCalibrationAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
