package jenkins

import (
	"strings"
	"text/template"
)

const (
	paramChoice = "choice"
	paramString = "string"
)

// project holds all data needed for the project template.
type project struct {
	JobName          string
	AssignedNode     string
	URL              string
	Branch           string
	RepositoryName   string
	Parameters       []parameter
	BatchCommands    []string
	ShellCommands    []string
	TestTypes        []testType
	DescriptionRegex string
}

// parameter is a build parameter definition.
type parameter struct {
	// Type is paramChoice or paramString.
	Type        string
	Name        string
	Description string
	Choices     []string
	Default     string
}

// testType is one xunit input, e.g. JUnitType with a file pattern.
type testType struct {
	Element string
	Pattern string
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeXML escapes text content. Newlines are kept as is so multi-line
// commands stay readable in the job configuration.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

var projectTemplate = template.Must(template.New("project").
	Funcs(template.FuncMap{"xml": escapeXML}).
	Parse(`<?xml version="1.0" ?>
<project>
  <actions/>
  <description>&lt;!-- Managed by Jenkins Job Builder --&gt;</description>
  <keepDependencies>false</keepDependencies>
  <blockBuildWhenDownstreamBuilding>false</blockBuildWhenDownstreamBuilding>
  <blockBuildWhenUpstreamBuilding>false</blockBuildWhenUpstreamBuilding>
  <concurrentBuild>false</concurrentBuild>
  <assignedNode>{{xml .AssignedNode}}</assignedNode>
  <canRoam>false</canRoam>
  <logRotator>
    <daysToKeep>7</daysToKeep>
    <numToKeep>16</numToKeep>
    <artifactDaysToKeep>-1</artifactDaysToKeep>
    <artifactNumToKeep>-1</artifactNumToKeep></logRotator>
{{- if .Parameters}}
  <properties>
    <hudson.model.ParametersDefinitionProperty>
      <parameterDefinitions>
{{- range .Parameters}}
{{- if eq .Type "choice"}}
        <hudson.model.ChoiceParameterDefinition>
          <name>{{xml .Name}}</name>
          <description>{{xml .Description}}</description>
          <choices class="java.util.Arrays$ArrayList">
            <a class="string-array">
{{- range .Choices}}
              <string>{{xml .}}</string>
{{- end}}
            </a>
          </choices>
        </hudson.model.ChoiceParameterDefinition>
{{- else}}
        <hudson.model.StringParameterDefinition>
          <name>{{xml .Name}}</name>
          <description>{{xml .Description}}</description>
          <defaultValue>{{xml .Default}}</defaultValue>
        </hudson.model.StringParameterDefinition>
{{- end}}
{{- end}}
      </parameterDefinitions>
    </hudson.model.ParametersDefinitionProperty>
  </properties>
{{- else}}
  <properties/>
{{- end}}
  <scm class="hudson.plugins.git.GitSCM">
    <configVersion>2</configVersion>
    <userRemoteConfigs>
      <hudson.plugins.git.UserRemoteConfig>
        <name>origin</name>
        <refspec>+refs/heads/*:refs/remotes/origin/*</refspec>
        <url>{{xml .URL}}</url>
      </hudson.plugins.git.UserRemoteConfig>
    </userRemoteConfigs>
    <branches>
      <hudson.plugins.git.BranchSpec>
        <name>{{xml .Branch}}</name>
      </hudson.plugins.git.BranchSpec>
    </branches>
    <excludedUsers/>
    <buildChooser class="hudson.plugins.git.util.DefaultBuildChooser"/>
    <disableSubmodules>false</disableSubmodules>
    <recursiveSubmodules>false</recursiveSubmodules>
    <doGenerateSubmoduleConfigurations>false</doGenerateSubmoduleConfigurations>
    <authorOrCommitter>false</authorOrCommitter>
    <clean>false</clean>
    <wipeOutWorkspace>false</wipeOutWorkspace>
    <pruneBranches>false</pruneBranches>
    <remotePoll>false</remotePoll>
    <gitTool>Default</gitTool>
    <submoduleCfg class="list"/>
    <relativeTargetDir>{{xml .RepositoryName}}</relativeTargetDir>
    <reference/>
    <gitConfigName/>
    <gitConfigEmail/>
    <skipTag>false</skipTag>
    <scmName/>
  </scm>
{{- if or .BatchCommands .ShellCommands}}
  <builders>
{{- range .BatchCommands}}
    <hudson.tasks.BatchFile>
      <command>{{xml .}}</command>
    </hudson.tasks.BatchFile>
{{- end}}
{{- range .ShellCommands}}
    <hudson.tasks.Shell>
      <command>{{xml .}}</command>
    </hudson.tasks.Shell>
{{- end}}
  </builders>
{{- else}}
  <builders/>
{{- end}}
{{- if or .TestTypes .DescriptionRegex}}
  <publishers>
{{- if .TestTypes}}
    <xunit>
      <types>
{{- range .TestTypes}}
        <{{.Element}}>
          <pattern>{{xml .Pattern}}</pattern>
          <skipNoTestFiles>true</skipNoTestFiles>
          <failIfNotNew>false</failIfNotNew>
          <deleteOutputFiles>true</deleteOutputFiles>
          <stopProcessingIfError>true</stopProcessingIfError>
        </{{.Element}}>
{{- end}}
      </types>
      <thresholds>
        <org.jenkinsci.plugins.xunit.threshold.FailedThreshold>
          <unstableThreshold>0</unstableThreshold>
          <unstableNewThreshold>0</unstableNewThreshold>
        </org.jenkinsci.plugins.xunit.threshold.FailedThreshold>
      </thresholds>
      <thresholdMode>1</thresholdMode>
    </xunit>
{{- end}}
{{- with .DescriptionRegex}}
    <hudson.plugins.descriptionsetter.DescriptionSetterPublisher>
      <regexp>{{xml .}}</regexp>
      <regexpForFailed>{{xml .}}</regexpForFailed>
      <setForMatrix>false</setForMatrix>
    </hudson.plugins.descriptionsetter.DescriptionSetterPublisher>
{{- end}}
  </publishers>
{{- else}}
  <publishers/>
{{- end}}
  <buildWrappers/>
</project>
`))
