package errors

import "fmt"

// excerptLimit bounds how much offending text is echoed back in parse errors
const excerptLimit = 40

// Excerpt shortens text for inclusion in an error message
func Excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return string(runes)
	}
	return string(runes[:excerptLimit]) + "..."
}

// InvalidStart reports a scan requested at a position that is not an opening delimiter
func InvalidStart(index int, found string) *BaseError {
	return Newf(InvalidStartCode, "scan must start at an opening brace, found %q at offset %d", found, index).
		WithContext("offset", index)
}

// UnbalancedDelimiters reports a scope that never closes before end of input
func UnbalancedDelimiters(offset int, region string) *BaseError {
	return Newf(UnbalancedDelimitersCode, "unbalanced braces: scope opened at offset %d is never closed", offset).
		WithContext("offset", offset).
		WithContext("region", Excerpt(region)).
		WithSuggestion("Check for a missing '}' after the class body")
}

// NoInterfaceFound reports input with no qualifying class declaration
func NoInterfaceFound() *BaseError {
	return New(NoInterfaceFoundCode, "no abstract class found, nothing to generate").
		WithSuggestions(
			"The header must declare a class (or a struct with virtual methods)",
			"Forward declarations and enums are ignored",
		)
}

// NoPureVirtualMethods reports a located class that contributes no pure-virtual methods
func NoPureVirtualMethods(className string) *BaseError {
	return Newf(NoPureVirtualMethodsCode, "class '%s' declares no pure virtual methods", className).
		WithContext("class", className).
		WithSuggestion("Declare methods as 'virtual <type> <name>(<params>) = 0;'")
}

// UnforwardableParameter reports a parameter whose missing name makes call forwarding impossible
func UnforwardableParameter(method, declaration string, index int) *BaseError {
	return Newf(UnforwardableParameterCode, "method '%s' has an unnamed parameter #%d and cannot be forwarded", method, index+1).
		WithContext("method", method).
		WithContext("declaration", declaration).
		WithContext("parameter_index", index).
		WithSuggestion("Give every parameter a name in the interface declaration")
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause).
		WithContext("item", item)
}

// OutputCollision reports a header whose bridge would overwrite one generated
// from an earlier header in the same run
func OutputCollision(path, owner, header string) *BaseError {
	return Newf(GenerationErrorCode, "output '%s' is already generated from '%s'", path, owner).
		WithContext("path", path).
		WithContext("owner", owner).
		WithContext("header", header).
		WithSuggestions(
			"Rename one of the interfaces",
			"Generate next to each header by leaving output_dir unset",
		)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("stage", operation)
}

// TemplateError creates a template error
func TemplateError(templateName, operation, message string) *BaseError {
	fullMessage := fmt.Sprintf("template error in '%s' during %s: %s", templateName, operation, message)
	return New(TemplateErrorCode, fullMessage).
		WithContext("template", templateName).
		WithContext("stage", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(key, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", key, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("key", key)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithContext("operation", operation)
}
