// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/temirov/vomit/internal/config"
	"github.com/temirov/vomit/internal/dump"
	"github.com/temirov/vomit/internal/patterns"
	"github.com/temirov/vomit/internal/services/clipboard"
	"github.com/temirov/vomit/internal/tokenizer"
	"github.com/temirov/vomit/internal/tree"
	"github.com/temirov/vomit/internal/utils"
)

const (
	ignoreFlagName   = "ignore"
	containsFlagName = "contains"
	treeFlagName     = "tree"
	tokensFlagName   = "tokens"
	modelFlagName    = "model"
	copyFlagName     = "copy"
	versionFlagName  = "version"
	configFlagName   = "config"

	ignoreFlagShorthand   = "i"
	containsFlagShorthand = "c"
	treeFlagShorthand     = "t"

	versionTemplate = "vomit version: %s\n"
	defaultPath     = "."
	rootUse         = "vomit [path]"

	rootShortDescription = "vomit serializes a directory into a single LLM-ready text file"
	rootLongDescription  = `vomit walks a directory tree, filters paths with substring patterns, and
concatenates every surviving file into delimited chunks inside ` + dump.OutputFileName + `
at the walked root. Use --ignore and --contains to supply pattern files,
--tree to print the filtered directory tree, and --tokens to embed a
per-file token usage report at the top of the output.`
	rootUsageExample = `  # Dump the current directory
  vomit

  # Dump only markdown files, with a token report
  vomit --contains docpatterns.txt --tokens

  # Exclude vendored code and print the tree
  vomit -i .vomitignore -t ./project`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a default ` + utils.ConfigFileName + ` configuration file.
Use --global to target the user-wide configuration directory instead of the
working directory, and --force to overwrite an existing file.`
	initGlobalFlagName = "global"
	initForceFlagName  = "force"

	ignoreFlagDescription   = "file of substring patterns excluding matching paths"
	containsFlagDescription = "file of substring patterns restricting files to matches"
	treeFlagDescription     = "print the filtered directory tree"
	tokensFlagDescription   = "embed and print the per-file token usage report"
	modelFlagDescription    = "tokenizer model to use for token counting"
	copyFlagDescription     = "copy the finished dump to the clipboard"
	versionFlagDescription  = "display application version"
	configFlagDescription   = "path to an explicit configuration file"
	globalFlagDescription   = "write the global configuration file"
	forceFlagDescription    = "overwrite an existing configuration file"

	defaultTokenizerModelName = "gpt-4o"

	warningClipboardFormat      = "Warning: failed to copy output to clipboard: %v\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	initializedConfigFormat     = "Wrote configuration to %s\n"
	// errorPathMissingFormat reports a missing root path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics for the root.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
)

// dumpOptions stores the flag values of the root command.
type dumpOptions struct {
	ignoreFilePath   string
	containsFilePath string
	printTree        bool
	reportTokens     bool
	model            string
	copyToClipboard  bool
	configFilePath   string
}

// Execute runs the vomit application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options dumpOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			return runDump(command, rootPath, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVarP(&options.ignoreFilePath, ignoreFlagName, ignoreFlagShorthand, "", ignoreFlagDescription)
	rootCommand.Flags().StringVarP(&options.containsFilePath, containsFlagName, containsFlagShorthand, "", containsFlagDescription)
	rootCommand.Flags().BoolVarP(&options.printTree, treeFlagName, treeFlagShorthand, false, treeFlagDescription)
	rootCommand.Flags().BoolVar(&options.reportTokens, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.model, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var useGlobalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if useGlobalTarget {
				target = config.InitTargetGlobal
			}
			destinationPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(initializedConfigFormat, destinationPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&useGlobalTarget, initGlobalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, initForceFlagName, false, forceFlagDescription)
	return initCommand
}

// runDump resolves the root path, merges configuration defaults under the
// explicit flags, and executes the tree view and the dump.
func runDump(command *cobra.Command, rootPath string, options dumpOptions) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	effective := applyConfigurationDefaults(command, options, applicationConfiguration.Dump)

	absoluteRootPath, rootValidationError := resolveRootDirectory(rootPath)
	if rootValidationError != nil {
		return rootValidationError
	}

	ignorePatterns, ignoreLoadError := patterns.Load(effective.ignoreFilePath)
	if ignoreLoadError != nil {
		return ignoreLoadError
	}
	containsPatterns, containsLoadError := patterns.Load(effective.containsFilePath)
	if containsLoadError != nil {
		return containsLoadError
	}

	if effective.printTree {
		treePrinter := &tree.Printer{
			IgnorePatterns:   ignorePatterns,
			ContainsPatterns: containsPatterns,
			Writer:           os.Stdout,
		}
		if treePrintError := treePrinter.Print(absoluteRootPath); treePrintError != nil {
			return treePrintError
		}
	}

	tokenCounter := tokenizer.NewCounter(tokenizer.Config{Model: effective.model})

	dumpResult, dumpError := dump.Run(dump.Options{
		Root:             absoluteRootPath,
		IgnorePatterns:   ignorePatterns,
		ContainsPatterns: containsPatterns,
		ReportTokens:     effective.reportTokens,
		Counter:          tokenCounter,
		BannerWriter:     os.Stdout,
	})
	if dumpError != nil {
		return dumpError
	}

	if effective.copyToClipboard {
		clipboardService := clipboard.NewService()
		if copyError := clipboardService.Copy(dumpResult.Artifact); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}

	return nil
}

// applyConfigurationDefaults fills flag values the user did not set from the
// merged application configuration.
func applyConfigurationDefaults(command *cobra.Command, options dumpOptions, defaults config.DumpConfiguration) dumpOptions {
	effective := options
	flags := command.Flags()
	if !flags.Changed(treeFlagName) && defaults.Tree != nil {
		effective.printTree = *defaults.Tree
	}
	if !flags.Changed(copyFlagName) && defaults.Clipboard != nil {
		effective.copyToClipboard = *defaults.Clipboard
	}
	if !flags.Changed(tokensFlagName) && defaults.Tokens.Enabled != nil {
		effective.reportTokens = *defaults.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && defaults.Tokens.Model != "" {
		effective.model = defaults.Tokens.Model
	}
	if !flags.Changed(ignoreFlagName) && defaults.IgnoreFile != "" {
		effective.ignoreFilePath = defaults.IgnoreFile
	}
	if !flags.Changed(containsFlagName) && defaults.ContainsFile != "" {
		effective.containsFilePath = defaults.ContainsFile
	}
	return effective
}

// resolveRootDirectory converts the input path to absolute form and validates
// that it exists and is a directory.
func resolveRootDirectory(rootPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf("abs failed for '%s': %w", rootPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, rootPath)
		}
		return "", fmt.Errorf(errorStatFormat, rootPath, fileStatusError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, rootPath)
	}
	return cleanPath, nil
}
