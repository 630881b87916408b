// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/projtree/internal/config"
	"github.com/temirov/projtree/internal/gitignore"
	"github.com/temirov/projtree/internal/patterns"
	"github.com/temirov/projtree/internal/services/clipboard"
	"github.com/temirov/projtree/internal/tree"
	"github.com/temirov/projtree/internal/utils"
)

const (
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	excludeFlagName     = "exclude"
	excludeShorthand    = "e"
	noGitignoreFlagName = "no-gitignore"
	copyFlagName        = "copy"
	quietFlagName       = "quiet"
	configFlagName      = "config"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"
	versionTemplate     = "projtree version: %s\n"
	defaultPath         = "."
	defaultToolName     = "projtree"

	rootUse              = "projtree [root_dir]"
	rootShortDescription = "write an ASCII tree of a project and update its .gitignore"

	// rootLongDescription provides detailed help for the root command.
	rootLongDescription = `projtree walks a project directory and writes its structure as a tree
diagram to a text file (project_structure.txt by default, relative to the root).
Hidden entries other than .gitignore and excluded names are omitted.
It then ensures a standard set of ignore patterns is present in the root .gitignore.`

	// rootUsageExample demonstrates root command usage.
	rootUsageExample = `  # Render the current directory
  projtree

  # Render ./service into tree.txt and exclude vendor and tmp
  projtree ./service -o tree.txt -e vendor -e tmp

  # Render without touching .gitignore and copy the tree
  projtree --no-gitignore --copy`

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	outputFlagDescription      = "tree output file, relative to the root directory"
	excludeFlagDescription     = "additional file or directory name to exclude (repeatable)"
	noGitignoreFlagDescription = "do not update .gitignore"
	copyFlagDescription        = "copy the rendered tree to the clipboard"
	quietFlagDescription       = "only report warnings and errors"
	configFlagDescription      = "configuration file path"
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write the configuration under the home directory"
	forceFlagDescription       = "overwrite an existing configuration file"

	infoOverwriteFormat         = "Existing '%s' found and will be overwritten."
	infoTreeWrittenFormat       = "ASCII project structure has been written to '%s'."
	infoGitignoreCreated        = "Created '%s' with %d entries."
	infoGitignoreAdded          = "Added %d entries to '%s'."
	infoGitignoreUnchanged      = "'%s' already contains all specified entries. No changes made."
	infoConfigWrittenFormat     = "Configuration written to %s\n"
	warningClipboardFormat      = "Warning: failed to copy tree to clipboard: %v"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorWriteTreeFormat        = "write tree to %s: %w"
	errorGitignoreFormat        = "tree written to %s, but updating %s failed: %w"
	errorLoggerFormat           = "initialize logger: %w"

	treeFilePermissions = 0o644
)

// application carries the collaborators a run depends on.
type application struct {
	newLogger        func(quiet bool) (*zap.Logger, error)
	copier           clipboard.Copier
	toolName         string
	workingDirectory func() (string, error)
	homeDirectory    string
}

// runOptions stores the flag values of the root command.
type runOptions struct {
	output      string
	exclusions  []string
	noGitignore bool
	copyToClip  bool
	quiet       bool
	configPath  string
	showVersion bool
}

// Execute runs the projtree application.
func Execute() error {
	app := &application{
		newLogger:        utils.NewApplicationLogger,
		copier:           clipboard.NewService(),
		toolName:         toolNameFromArguments(os.Args),
		workingDirectory: os.Getwd,
	}
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

func toolNameFromArguments(arguments []string) string {
	if len(arguments) == 0 || arguments[0] == utils.EmptyString {
		return defaultToolName
	}
	return filepath.Base(arguments[0])
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	var options runOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			rootDirectory := defaultPath
			if len(arguments) == 1 {
				rootDirectory = arguments[0]
			}
			return app.run(command, rootDirectory, options)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.output, outputFlagName, outputFlagShorthand, utils.DefaultOutputFileName, outputFlagDescription)
	flagSet.StringSliceVarP(&options.exclusions, excludeFlagName, excludeShorthand, nil, excludeFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	registerBooleanFlag(flagSet, &options.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClip, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.quiet, quietFlagName, false, quietFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(app))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := app.workingDirectory()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
				HomeDirectory:    app.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), infoConfigWrittenFormat, path)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// run renders the tree for rootDirectory, writes it, and updates .gitignore.
func (app *application) run(command *cobra.Command, rootDirectory string, options runOptions) error {
	logger, loggerError := app.newLogger(options.quiet)
	if loggerError != nil {
		return fmt.Errorf(errorLoggerFormat, loggerError)
	}
	defer func() { _ = logger.Sync() }()

	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    app.homeDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	settings := resolveSettings(command, configuration, options)

	absoluteRoot, rootError := tree.ValidateRoot(utils.ResolveAgainst(workingDirectory, rootDirectory))
	if rootError != nil {
		return rootError
	}
	outputPath := utils.ResolveAgainst(absoluteRoot, settings.output)

	renderer := tree.NewRenderer(tree.Options{
		Exclusions: patterns.NewExclusionSet(patterns.DefaultExclusions(), settings.exclusions),
		SkipPaths:  []string{outputPath},
		Warn: func(message string) {
			logger.Warn(message)
		},
	})
	treeText := tree.Format(slices.Collect(renderer.Lines(absoluteRoot)))

	if info, statError := os.Stat(outputPath); statError == nil && !info.IsDir() {
		logger.Info(fmt.Sprintf(infoOverwriteFormat, settings.output))
	}
	if writeError := os.WriteFile(outputPath, []byte(treeText), treeFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteTreeFormat, outputPath, writeError)
	}
	logger.Info(fmt.Sprintf(infoTreeWrittenFormat, outputPath))

	if settings.copyToClipboard {
		if copyError := app.copier.Copy(treeText); copyError != nil {
			logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
		}
	}

	if !settings.updateGitignore {
		return nil
	}
	gitignorePath := filepath.Join(absoluteRoot, utils.GitIgnoreFileName)
	requiredPatterns := patterns.GitignorePatterns(filepath.Base(outputPath), app.toolName, settings.extraPatterns, settings.exclusions)
	result, updateError := gitignore.Update(gitignorePath, requiredPatterns)
	if updateError != nil {
		return fmt.Errorf(errorGitignoreFormat, outputPath, utils.GitIgnoreFileName, updateError)
	}
	switch {
	case result.Created:
		logger.Info(fmt.Sprintf(infoGitignoreCreated, gitignorePath, len(result.Added)))
	case result.Changed():
		logger.Info(fmt.Sprintf(infoGitignoreAdded, len(result.Added), gitignorePath))
	default:
		logger.Info(fmt.Sprintf(infoGitignoreUnchanged, gitignorePath))
	}
	return nil
}

// runSettings is the effective configuration after flags override configuration files.
type runSettings struct {
	output          string
	exclusions      []string
	extraPatterns   []string
	copyToClipboard bool
	updateGitignore bool
}

func resolveSettings(command *cobra.Command, configuration config.ApplicationConfiguration, options runOptions) runSettings {
	flags := command.Flags()
	settings := runSettings{
		output:          configuration.OutputOrDefault(),
		exclusions:      utils.DeduplicatePatterns(append(append([]string{}, configuration.Exclude...), options.exclusions...)),
		extraPatterns:   configuration.Gitignore.Patterns,
		copyToClipboard: configuration.CopyEnabled(),
		updateGitignore: configuration.GitignoreUpdateEnabled(),
	}
	if flags.Changed(outputFlagName) {
		settings.output = options.output
	}
	if flags.Changed(copyFlagName) {
		settings.copyToClipboard = options.copyToClip
	}
	if flags.Changed(noGitignoreFlagName) {
		settings.updateGitignore = !options.noGitignore
	}
	return settings
}
