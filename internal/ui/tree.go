package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

type treeNode struct {
	name     string
	isFile   bool
	change   *models.FileChange
	children map[string]*treeNode
}

// ShowFilesTree prints the files of a commit as a directory tree with their
// line stats.
func ShowFilesTree(w io.Writer, files []models.FileChange, header string) {
	if len(files) == 0 {
		return
	}

	if header != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", header)
	}
	printTree(w, buildFileTree(files), "", true)
}

func buildFileTree(files []models.FileChange) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for i := range files {
		change := &files[i]
		parts := strings.Split(change.Name, "/")
		current := root

		for j, part := range parts {
			isFile := j == len(parts)-1
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
				if isFile {
					current.children[part].change = change
				}
			}
			current = current.children[part]
		}
	}
	return root
}

func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		stats := ""
		if node.isFile && node.change != nil {
			statsColor := color.New(color.FgGreen)
			if node.change.Deletions > node.change.Additions {
				statsColor = color.New(color.FgRed)
			}
			stats = statsColor.Sprintf(" (+%d, -%d)", node.change.Additions, node.change.Deletions)
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := sortedChildren(node.children)
	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortedChildren lists directories first, then files, each alphabetically.
func sortedChildren(nodes map[string]*treeNode) []string {
	keys := make([]string, 0, len(nodes))
	for key := range nodes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := nodes[keys[i]], nodes[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
	return keys
}
